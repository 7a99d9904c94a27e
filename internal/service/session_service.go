package service

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/ndewijer/shoken-receipts-backend/internal/api/request"
	"github.com/ndewijer/shoken-receipts-backend/internal/apperrors"
	"github.com/ndewijer/shoken-receipts-backend/internal/model"
	"github.com/ndewijer/shoken-receipts-backend/internal/repository"
)

// SessionService manages the user info sessions the front end keeps between visits.
// Auth codes are encrypted with a fernet key before they reach the database.
type SessionService struct {
	sessionRepo *repository.SessionRepository
	key         *fernet.Key
	ttl         time.Duration
	now         func() time.Time
}

// NewSessionService creates a new SessionService. Sessions idle for longer than ttl are purged.
func NewSessionService(sessionRepo *repository.SessionRepository, key *fernet.Key, ttl time.Duration) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		key:         key,
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// LoadSecretKey decodes a base64 fernet key. An empty string generates a fresh key,
// reported by the second return value; auth codes stored under it are unreadable after a restart.
func LoadSecretKey(encoded string) (*fernet.Key, bool, error) {
	if strings.TrimSpace(encoded) == "" {
		var k fernet.Key
		if err := k.Generate(); err != nil {
			return nil, false, fmt.Errorf("failed to generate session key: %w", err)
		}
		return &k, true, nil
	}

	k, err := fernet.DecodeKey(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode session key: %w", err)
	}
	return k, false, nil
}

// CreateSession stores a new session for already validated user info.
func (s *SessionService) CreateSession(req request.CreateSessionRequest) (model.Session, error) {
	now := s.now()
	session := model.Session{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		CreatedAt:  now,
		LastSeenAt: now,
	}

	var token []byte
	if req.AuthCode != nil && *req.AuthCode != "" {
		var err error
		token, err = fernet.EncryptAndSign([]byte(*req.AuthCode), s.key)
		if err != nil {
			return model.Session{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToEncryptAuthCode, err)
		}
		session.HasAuthCode = true
	}

	if err := s.sessionRepo.InsertSession(session, token); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// GetSession returns the session and marks it as seen.
func (s *SessionService) GetSession(id string) (model.Session, error) {
	session, _, err := s.sessionRepo.GetSession(id)
	if err != nil {
		return model.Session{}, err
	}

	now := s.now()
	if err := s.sessionRepo.TouchSession(id, now); err != nil {
		return model.Session{}, err
	}
	session.LastSeenAt = now
	return session, nil
}

// Touch marks the session as seen. It returns apperrors.ErrSessionNotFound for unknown sessions.
func (s *SessionService) Touch(id string) error {
	return s.sessionRepo.TouchSession(id, s.now())
}

// Exists reports whether the session is known without touching it.
func (s *SessionService) Exists(id string) error {
	_, _, err := s.sessionRepo.GetSession(id)
	return err
}

// AuthCode decrypts the stored auth code. It returns "" when the session has none.
func (s *SessionService) AuthCode(id string) (string, error) {
	_, token, err := s.sessionRepo.GetSession(id)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", nil
	}

	// Negative ttl disables token expiry; session lifetime is enforced by the purge.
	msg := fernet.VerifyAndDecrypt(token, -1, []*fernet.Key{s.key})
	if msg == nil {
		return "", apperrors.ErrFailedToDecryptAuthCode
	}
	return string(msg), nil
}

// VerifyAuthCode reports whether code matches the session's stored auth code and marks the
// session as seen. A session without an auth code never matches.
func (s *SessionService) VerifyAuthCode(id, code string) (bool, error) {
	stored, err := s.AuthCode(id)
	if err != nil {
		return false, err
	}
	if err := s.Touch(id); err != nil {
		return false, err
	}
	if stored == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1, nil
}

// PurgeExpired deletes sessions idle for longer than the configured ttl and returns their IDs.
func (s *SessionService) PurgeExpired() ([]string, error) {
	return s.sessionRepo.DeleteSessionsIdleSince(s.now().Add(-s.ttl))
}
