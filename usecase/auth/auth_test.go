package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptrack/backend/domain"
)

type memorySessions struct {
	store map[string]domain.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{store: make(map[string]domain.Session)}
}

func (m *memorySessions) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memorySessions) Save(_ context.Context, session *domain.Session) error {
	m.store[session.ID] = *session
	return nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	delete(m.store, id)
	return nil
}

func newUseCase(sessions *memorySessions) *UseCase {
	return New(sessions, Credentials{Username: "admin", Password: "s3cret"}, "jwt-secret", "comptrack", nil)
}

func TestLogin_Success(t *testing.T) {
	sessions := newMemorySessions()
	uc := newUseCase(sessions)

	session, token, err := uc.Login(context.Background(), "admin", "s3cret", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "admin", session.Admin)
	assert.NotEmpty(t, token)
	assert.Contains(t, sessions.store, session.ID)

	// Token carries the session id and is verifiable with the shared secret.
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte("jwt-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, session.ID, claims["session_id"])
	assert.Equal(t, "comptrack", claims["iss"])
}

func TestLogin_BadCredentials(t *testing.T) {
	sessions := newMemorySessions()
	uc := newUseCase(sessions)

	for _, pair := range [][2]string{
		{"admin", "wrong"},
		{"intruder", "s3cret"},
		{"", ""},
	} {
		_, _, err := uc.Login(context.Background(), pair[0], pair[1], time.Hour)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	}

	// Failed logins leave no session behind.
	assert.Empty(t, sessions.store)
}

func TestGetSession_ExpiredIsEvicted(t *testing.T) {
	sessions := newMemorySessions()
	uc := newUseCase(sessions)

	sessions.store["stale"] = domain.Session{
		ID:        "stale",
		Admin:     "admin",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	_, err := uc.GetSession(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	assert.NotContains(t, sessions.store, "stale")
}

func TestSetPhone(t *testing.T) {
	sessions := newMemorySessions()
	uc := newUseCase(sessions)

	session, _, err := uc.Login(context.Background(), "admin", "s3cret", time.Hour)
	require.NoError(t, err)

	updated, err := uc.SetPhone(context.Background(), session.ID, "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", updated.PhoneNumber)
	assert.Equal(t, "+15551234567", sessions.store[session.ID].PhoneNumber)
}

func TestSetPhone_UnknownSession(t *testing.T) {
	uc := newUseCase(newMemorySessions())

	_, err := uc.SetPhone(context.Background(), "missing", "+15551234567")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
