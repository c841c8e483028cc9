package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/scentory/scentory/internal/common/cnst"
)

// DefaultTTL is used when Issue is called with a non-positive ttl
const DefaultTTL = 15 * time.Minute

var (
	ErrInvalidCredentials = errors.New("could not validate credentials")
	ErrInvalidAlgorithm   = errors.New("unsupported signing algorithm")
	ErrEmptySecretKey     = errors.New("secret key cannot be empty")
)

var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// Claims is the token payload. The subject is the username.
type Claims struct {
	Role cnst.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UnmarshalJSON decodes the registered claims strictly and the role leniently:
// a missing, non-string or unknown role becomes USER.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role json.RawMessage `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &c.RegisteredClaims); err != nil {
		return err
	}
	var role string
	if len(raw.Role) > 0 {
		_ = json.Unmarshal(raw.Role, &role)
	}
	c.Role = cnst.ParseRole(role)
	return nil
}

// Config represents the token configuration
type Config struct {
	SecretKey string
	Algorithm string
	Duration  time.Duration
}

// Service issues and validates bearer tokens
type Service struct {
	secret   []byte
	method   jwt.SigningMethod
	duration time.Duration
	now      func() time.Time
}

// NewService creates a new token service
func NewService(config Config) (*Service, error) {
	if config.SecretKey == "" {
		return nil, ErrEmptySecretKey
	}
	alg := config.Algorithm
	if alg == "" {
		alg = "HS256"
	}
	method, ok := signingMethods[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAlgorithm, alg)
	}
	return &Service{
		secret:   []byte(config.SecretKey),
		method:   method,
		duration: config.Duration,
		now:      time.Now,
	}, nil
}

// Duration is the lifetime of tokens issued at login
func (s *Service) Duration() time.Duration {
	if s.duration <= 0 {
		return DefaultTTL
	}
	return s.duration
}

// Issue signs a token for subject carrying role, valid for ttl
func (s *Service) Issue(subject string, role cnst.Role, ttl time.Duration) (string, *Claims, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := s.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, claims, nil
}

// Validate parses tokenString and returns its claims. Any failure, including
// expiry, yields an error wrapping ErrInvalidCredentials.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
