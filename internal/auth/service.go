// Package auth registers and logs in dashboard users and guards routes with
// bearer tokens.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"retail-insights/internal/domain"
	"retail-insights/internal/model"
	"retail-insights/pkg/logger"
)

// UserStore is the part of the datastore auth needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

type Service struct {
	users      UserStore
	tokens     *TokenIssuer
	bcryptCost int
}

func NewService(users UserStore, tokens *TokenIssuer, bcryptCost int) *Service {
	return &Service{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a user. E-mails are compared case-insensitively.
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if len(password) > MaxPasswordBytes {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and issues a token. Unknown e-mail and wrong
// password give the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	invalid := domain.NewUnauthorizedError("invalid email or password")

	u, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if domain.IsNotFound(err) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}

	ok, err := CheckPassword(u.PasswordHash, password)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if !ok {
		return nil, invalid
	}

	token, expires, err := s.tokens.Issue(u)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: expires, User: u}, nil
}

// Authenticate resolves the user behind a bearer token.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		logger.FromContext(ctx).Debug("token rejected", "error", err)
		return nil, domain.NewUnauthorizedError("invalid or expired token")
	}

	u, err := s.users.GetUserByID(ctx, claims.Subject)
	if domain.IsNotFound(err) {
		return nil, domain.NewUnauthorizedError("user no longer exists")
	}
	return u, err
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type userKey struct{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user stored by WithUser.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey{}).(*model.User)
	return u, ok
}
