package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/taskgate/internal/directory"
	"github.com/Skotchmaster/taskgate/pkg/logging"
)

const (
	EventLoginSucceeded = "user_logged_in"
	EventLoginFailed    = "user_login_failed"

	publishTimeout = 5 * time.Second
)

type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) error
}

type TokenIssuer interface {
	Issue(username string) (string, time.Time, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// AuthService turns directory credentials into a signed session token.
// Events is optional; a nil publisher skips auditing.
type AuthService struct {
	Verifier    CredentialVerifier
	Tokens      TokenIssuer
	Events      EventPublisher
	EventsTopic string
	Now         func() time.Time
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

type LoginEvent struct {
	Type     string    `json:"type"`
	Username string    `json:"username"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		l.Warn("login_failed", "status", 400, "reason", "missing_fields")
		return nil, ErrValidation
	}

	if err := s.Verifier.Verify(ctx, username, password); err != nil {
		if errors.Is(err, directory.ErrValidation) {
			l.Warn("login_failed", "status", 400, "reason", "missing_fields")
			return nil, ErrValidation
		}
		reason := FailureReason(err)
		if reason == "directory_error" {
			l.Error("login_failed", "status", 401, "reason", reason, "error", err)
		} else {
			l.Warn("login_failed", "status", 401, "reason", reason)
		}
		s.publish(ctx, LoginEvent{Type: EventLoginFailed, Username: username, Reason: reason, At: s.now()})
		return nil, errors.Join(ErrInvalidCredentials, err)
	}

	token, exp, err := s.Tokens.Issue(username)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "token_signing", "error", err)
		return nil, errors.Join(ErrTokenIssue, err)
	}

	s.publish(ctx, LoginEvent{Type: EventLoginSucceeded, Username: username, At: s.now()})
	l.Info("login_successful", "expires_at", exp)

	return &LoginResult{Token: token, ExpiresAt: exp}, nil
}

// FailureReason classifies a verifier error for logs and audit events.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, directory.ErrInvalidCredentials):
		return "bad_credentials"
	case errors.Is(err, directory.ErrNotAuthorized):
		return "not_in_group"
	default:
		return "directory_error"
	}
}

func (s *AuthService) publish(ctx context.Context, ev LoginEvent) {
	if s.Events == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.Events.PublishEvent(ctx, s.EventsTopic, ev.Username, ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", s.EventsTopic, "type", ev.Type, "error", err)
	}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
