package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/repository"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	byEmail   map[string]*domain.User
	nextID    int
	insertErr error
	emptyID   bool
	// skipLookup makes FindByEmail miss so Insert's duplicate check is exercised.
	skipLookup bool
	writes     []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok || r.skipLookup {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Insert(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return "", r.insertErr
	}
	if r.emptyID {
		return "", nil
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return "", domain.ErrDuplicateEmail
	}
	r.nextID++
	cp := *user
	cp.ID = "user-" + strconv.Itoa(r.nextID)
	r.byEmail[user.Email] = &cp
	return cp.ID, nil
}

func (r *fakeUserRepo) find(id string) *domain.User {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.find(id)
	if u == nil {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	r.writes = append(r.writes, "password")
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.find(id)
	if u == nil {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.find(id)
	if u == nil {
		return domain.ErrNotFound
	}
	u.Name = update.Name
	if update.NewPasswordHash != nil {
		u.PasswordHash = *update.NewPasswordHash
	}
	r.writes = append(r.writes, "profile")
	return nil
}

func (r *fakeUserRepo) SetAdmin(_ context.Context, email string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

type fakeConversationRepo struct {
	mu     sync.Mutex
	rows   []domain.Conversation
	nextID int
	now    time.Time
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (r *fakeConversationRepo) Create(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	conv.ID = "conv-" + strconv.Itoa(r.nextID)
	if conv.CreatedAt.IsZero() {
		r.now = r.now.Add(time.Minute)
		conv.CreatedAt = r.now
	}
	r.rows = append(r.rows, *conv)
	return nil
}

func (r *fakeConversationRepo) SetReply(_ context.Context, userID, id, reply string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].UserID == userID {
			r.rows[i].Reply = reply
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeConversationRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Conversation
	for _, c := range r.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeConversationRepo) GetForUser(_ context.Context, userID, id string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id && c.UserID == userID {
			cp := c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeConversationRepo) DeleteForUser(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.rows {
		if c.ID == id && c.UserID == userID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeConversationRepo) CountByUser(_ context.Context, userID string) (repository.ConversationCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts repository.ConversationCounts
	for _, c := range r.rows {
		if c.UserID != userID {
			continue
		}
		counts.Conversations++
		if c.Reply != "" {
			counts.Replies++
		}
	}
	return counts, nil
}

type fakeAnalyticsRepo struct {
	mu     sync.Mutex
	events []domain.AnalyticsEvent
}

func (r *fakeAnalyticsRepo) Create(_ context.Context, event *domain.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeAnalyticsRepo) Summarize(_ context.Context) ([]domain.EventSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	users := map[string]map[string]struct{}{}
	for _, e := range r.events {
		counts[e.Event]++
		if users[e.Event] == nil {
			users[e.Event] = map[string]struct{}{}
		}
		users[e.Event][e.UserID] = struct{}{}
	}
	var out []domain.EventSummary
	for name, n := range counts {
		out = append(out, domain.EventSummary{Event: name, Count: n, UniqueUsers: int64(len(users[name]))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Event < out[j].Event })
	return out, nil
}

func (r *fakeAnalyticsRepo) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Event)
	}
	return out
}

type fakeCompleter struct {
	reply   string
	err     error
	history []domain.ChatMessage
}

func (c *fakeCompleter) Complete(_ context.Context, history []domain.ChatMessage) (string, error) {
	c.history = history
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type fakeStatsCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.DashboardStats
	getErr      error
	invalidated []string
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: map[string]*domain.DashboardStats{}}
}

func (c *fakeStatsCache) Get(_ context.Context, userID string) (*domain.DashboardStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.entries[userID]
	return s, ok, nil
}

func (c *fakeStatsCache) Set(_ context.Context, userID string, stats *domain.DashboardStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = stats
	return nil
}

func (c *fakeStatsCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

// countingHasher wraps a real hasher and counts bcrypt comparisons.
type countingHasher struct {
	PasswordHasher
	mu       sync.Mutex
	compares int
}

func (h *countingHasher) Compare(hashed, plain string) bool {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	return h.PasswordHasher.Compare(hashed, plain)
}

func (h *countingHasher) CompareDecoy(plain string) {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	h.PasswordHasher.CompareDecoy(plain)
}
