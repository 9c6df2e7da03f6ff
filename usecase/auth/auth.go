package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comptrack/backend/domain"
	"github.com/comptrack/backend/repository"
)

// Credentials is the single fixed admin credential pair, loaded from config.
// Hardening (lockout, rate limits, multiple users) is out of scope.
type Credentials struct {
	Username string
	Password string
}

type UseCase struct {
	sessions  repository.SessionRepository
	creds     Credentials
	jwtSecret string
	jwtIssuer string
	logger    *zap.Logger
}

func New(sessions repository.SessionRepository, creds Credentials, jwtSecret, jwtIssuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		sessions:  sessions,
		creds:     creds,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
		logger:    logger,
	}
}

// Login checks the submitted pair against the configured credentials and, on
// success, creates a session and signs a token carrying its id. Failure has
// no side effect.
func (uc *UseCase) Login(ctx context.Context, username, password string, ttl time.Duration) (*domain.Session, string, error) {
	if !uc.credentialsMatch(username, password) {
		uc.logger.Warn("login rejected", zap.String("username", username))
		return nil, "", domain.ErrBadCredentials
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Admin:     username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := uc.signToken(session)
	if err != nil {
		_ = uc.sessions.Delete(ctx, session.ID)
		return nil, "", err
	}

	uc.logger.Info("admin logged in", zap.String("session_id", session.ID))
	return session, token, nil
}

// GetSession loads a session and expires it lazily.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SetPhone stores a per-admin recipient number on the session. It overrides
// the configured default for notifications triggered by this session.
func (uc *UseCase) SetPhone(ctx context.Context, sessionID, phoneNumber string) (*domain.Session, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.PhoneNumber = phoneNumber
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *UseCase) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(uc.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(uc.creds.Password)) == 1
	return userOK && passOK
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"session_id": session.ID,
		"sub":        session.Admin,
		"iss":        uc.jwtIssuer,
		"iat":        session.CreatedAt.Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.jwtSecret))
}
