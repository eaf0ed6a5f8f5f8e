package auth

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-service/internal/domain"
)

const testSecret = "super-secret"

var alice = domain.Identity{ID: "u-1", DisplayName: "Alice", Email: "a@x.com"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateAndParse_RoundTrip(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testSecret, DefaultSessionTTL)
	token, exp, err := tm.GenerateToken(alice)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), exp, 2*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, alice, claims.User)
	assert.Equal(t, alice.ID, claims.Subject)
	assert.Equal(t, exp, claims.ExpiresAt.Time)
}

func TestParseToken_Idempotent(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.GenerateToken(alice)
	require.NoError(t, err)

	first, err1 := tm.ParseToken(token)
	second, err2 := tm.ParseToken(token)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first.User, second.User)
}

func TestParseToken_Missing(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager(testSecret, time.Hour).ParseToken("")
	assert.ErrorIs(t, err, domain.ErrMissingToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenManager("right-secret", time.Hour).GenerateToken(alice)
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager(testSecret, time.Hour)
	for _, token := range []string{"not.a.jwt", "abc", "a.b", "a.b.c.d", "...."} {
		_, err := tm.ParseToken(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, token)
	}
}

func TestParseToken_BitFlipsAreRejected(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 42))
	tm := NewTokenManager(testSecret, time.Hour)
	identities := []domain.Identity{
		alice,
		{ID: "u-2", DisplayName: "Bob", Email: "b@x.com"},
		{ID: "65f0c2a1e4b0", DisplayName: "Zoë Ünïcode", Email: "zoe@example.org"},
	}

	flips := 0
	for _, identity := range identities {
		token, _, err := tm.GenerateToken(identity)
		require.NoError(t, err)

		for i := 0; i < 50; i++ {
			raw := []byte(token)
			pos := rng.IntN(len(raw))
			raw[pos] ^= 1 << rng.IntN(8)

			_, err := tm.ParseToken(string(raw))
			require.ErrorIs(t, err, domain.ErrInvalidToken, "flip at byte %d of %q", pos, token)
			flips++
		}
	}
	assert.GreaterOrEqual(t, flips, 100)
}

func TestParseToken_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	verifier := NewTokenManager(testSecret, DefaultSessionTTL, WithClock(fixedClock(now)))

	tests := []struct {
		name     string
		issuedAt time.Time
		wantErr  error
	}{
		{name: "one second past expiry", issuedAt: now.Add(-DefaultSessionTTL - time.Second), wantErr: domain.ErrExpired},
		{name: "at expiry", issuedAt: now.Add(-DefaultSessionTTL), wantErr: domain.ErrExpired},
		{name: "one second before expiry", issuedAt: now.Add(-DefaultSessionTTL + time.Second)},
		{name: "fresh", issuedAt: now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := NewTokenManager(testSecret, DefaultSessionTTL, WithClock(fixedClock(tt.issuedAt)))
			token, _, err := issuer.GenerateToken(alice)
			require.NoError(t, err)

			claims, err := verifier.ParseToken(token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice, claims.User)
		})
	}
}

func TestParseToken_ExpiredWithBadSignatureIsInvalid(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenManager("other-secret", time.Hour, WithClock(fixedClock(now.Add(-2*time.Hour))))
	token, _, err := issuer.GenerateToken(alice)
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, time.Hour, WithClock(fixedClock(now))).ParseToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
