package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/domain"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GeminiClient calls the hosted generateContent endpoint.
type GeminiClient struct {
	http    *fiber.Client
	baseURL string
	model   string
	apiKey  string
	timeout time.Duration
}

// NewGeminiClient builds a client from configuration.
func NewGeminiClient(cfg config.LLMConfig) *GeminiClient {
	return &GeminiClient{
		http:    &fiber.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout(),
	}
}

// Complete sends the whole history and returns the model's reply text. Client roles other than
// "user" are sent as "model". Failures wrap domain.ErrUpstreamUnavailable.
func (g *GeminiClient) Complete(ctx context.Context, history []domain.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", domain.ErrEmptyConversation
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	req := generateRequest{Contents: make([]content, 0, len(history))}
	for _, msg := range history {
		role := roleModel
		if msg.Role == domain.ChatRoleUser {
			role = roleUser
		}
		req.Contents = append(req.Contents, content{Role: role, Parts: []part{{Text: msg.Content}}})
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	agent := g.http.Post(url).
		Set("x-goog-api-key", g.apiKey).
		JSON(req).
		Timeout(g.requestTimeout(ctx))

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, errors.Join(errs...))
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decode response (status %d): %v", domain.ErrUpstreamUnavailable, code, err)
	}
	if code != fiber.StatusOK {
		msg := fiber.ErrBadGateway.Message
		if resp.Error != nil {
			msg = resp.Error.Message
		}
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamUnavailable, code, msg)
	}

	for _, cand := range resp.Candidates {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
	return "", fmt.Errorf("%w: empty response", domain.ErrUpstreamUnavailable)
}

// requestTimeout caps the configured timeout by the caller's deadline.
func (g *GeminiClient) requestTimeout(ctx context.Context) time.Duration {
	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}
