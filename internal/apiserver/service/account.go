package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/apiserver/database"
	"github.com/scentory/scentory/internal/auth/jwt"
	"github.com/scentory/scentory/internal/auth/password"
	"github.com/scentory/scentory/internal/auth/revocation"
	"github.com/scentory/scentory/internal/common/cnst"
	"github.com/scentory/scentory/internal/i18n"
	"github.com/scentory/scentory/pkg/metrics"
	"github.com/scentory/scentory/pkg/trace"
)

// TokenGrant is the result of a successful login
type TokenGrant struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}

// UserPatch carries the admin-editable account fields
type UserPatch struct {
	Role     *cnst.Role
	IsActive *bool
}

// AccountService owns registration, login, token resolution and user administration
type AccountService struct {
	db      database.Database
	hasher  *password.Hasher
	tokens  *jwt.Service
	revoked revocation.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
	tracer  *trace.Builder
}

func NewAccountService(db database.Database, hasher *password.Hasher, tokens *jwt.Service, revoked revocation.Store, m *metrics.Metrics, logger *zap.Logger) *AccountService {
	return &AccountService{
		db:      db,
		hasher:  hasher,
		tokens:  tokens,
		revoked: revoked,
		metrics: m,
		logger:  logger.Named("account"),
		tracer:  trace.Tracer(cnst.TraceAccount),
	}
}

// Register creates an active USER account. Username conflicts are reported before email conflicts.
func (s *AccountService) Register(ctx context.Context, username, email, plain string) (*database.User, error) {
	sp := s.tracer.Start(ctx, "account.register").WithAttrs(attribute.String("username", username))
	defer sp.End()

	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, sp.Fail(err)
	}

	user := &database.User{
		Username: username,
		Email:    email,
		Password: hashed,
		IsActive: true,
		Role:     cnst.RoleUser,
	}
	err = s.db.Transaction(sp.Ctx, func(ctx context.Context) error {
		exists, err := s.db.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		if exists {
			return i18n.ErrUsernameExists
		}
		exists, err = s.db.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return i18n.ErrEmailExists
		}
		return s.db.CreateUser(ctx, user)
	})
	s.metrics.AuthEvent(cnst.AuthEventRegister, err == nil)
	if err != nil {
		return nil, sp.Fail(err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", username))
	return user, nil
}

// Authenticate checks credentials. Unknown usernames and wrong passwords fail identically.
func (s *AccountService) Authenticate(ctx context.Context, username, plain string) (*database.User, error) {
	user, err := s.db.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		s.hasher.Burn(plain)
		return nil, i18n.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user %q: %w", username, err)
	}
	if err := s.hasher.Verify(user.Password, plain); err != nil {
		return nil, i18n.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a token carrying the stored role
func (s *AccountService) Login(ctx context.Context, username, plain string) (*TokenGrant, error) {
	sp := s.tracer.Start(ctx, "account.login").WithAttrs(attribute.String("username", username))
	defer sp.End()

	user, err := s.Authenticate(sp.Ctx, username, plain)
	if err != nil {
		s.metrics.AuthEvent(cnst.AuthEventLogin, false)
		return nil, sp.Fail(err)
	}

	ttl := s.tokens.Duration()
	token, _, err := s.tokens.Issue(user.Username, user.Role, ttl)
	if err != nil {
		s.metrics.AuthEvent(cnst.AuthEventLogin, false)
		return nil, sp.Fail(err)
	}
	s.metrics.AuthEvent(cnst.AuthEventLogin, true)
	s.logger.Debug("token issued", zap.String("username", user.Username), zap.String("role", string(user.Role)))

	return &TokenGrant{AccessToken: token, TokenType: cnst.TokenType, ExpiresIn: ttl}, nil
}

// ResolvePrincipal turns a bearer token into the requesting user. The returned
// user is a per-request copy whose role comes from the token.
func (s *AccountService) ResolvePrincipal(ctx context.Context, token string) (*database.User, *jwt.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, nil, i18n.ErrNotAuthenticated
	}

	if claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, nil, i18n.ErrNotAuthenticated
		}
	}

	user, err := s.db.GetUserByUsername(ctx, claims.Subject)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil, i18n.ErrNotAuthenticated
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load principal %q: %w", claims.Subject, err)
	}

	principal := *user
	principal.Role = claims.Role
	return &principal, claims, nil
}

// Logout revokes the token identified by claims until it would have expired
func (s *AccountService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return i18n.ErrNotAuthenticated
	}
	err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
	s.metrics.AuthEvent(cnst.AuthEventLogout, err == nil)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Debug("token revoked", zap.String("username", claims.Subject))
	return nil
}

// ListUsers pages through accounts ordered by id
func (s *AccountService) ListUsers(ctx context.Context, page database.Page) ([]*database.User, int64, error) {
	return s.db.ListUsers(ctx, page)
}

// UpdateUser changes a user's stored role and active flag
func (s *AccountService) UpdateUser(ctx context.Context, id uint, patch UserPatch) (*database.User, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, i18n.ErrInvalidRole.WithParam("Role", string(*patch.Role))
	}

	var user *database.User
	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.db.GetUserByID(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			return i18n.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if patch.Role != nil {
			user.Role = *patch.Role
		}
		if patch.IsActive != nil {
			user.IsActive = *patch.IsActive
		}
		return s.db.UpdateUserAccess(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user access updated", zap.Uint("user_id", id), zap.String("role", string(user.Role)), zap.Bool("is_active", user.IsActive))
	return user, nil
}

// DeleteUser removes an account together with its perfumes and every purchase
// made by it or against its perfumes. An admin cannot remove themselves.
func (s *AccountService) DeleteUser(ctx context.Context, id, requesterID uint) error {
	if id == requesterID {
		return i18n.ErrCannotDeleteSelf
	}
	err := s.db.DeleteUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return i18n.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Uint("user_id", id), zap.Uint("by", requesterID))
	return nil
}
