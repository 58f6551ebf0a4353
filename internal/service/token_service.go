package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

// DefaultTokenTTL is how long an issued session token stays valid
const DefaultTokenTTL = time.Hour

var (
	ErrTokenMalformed        = &domain.Error{Kind: domain.KindUnauthorized, Message: "Token is malformed"}
	ErrTokenInvalidSignature = &domain.Error{Kind: domain.KindUnauthorized, Message: "Token signature is invalid"}
	ErrTokenExpired          = &domain.Error{Kind: domain.KindUnauthorized, Message: "Token has expired"}
	ErrTokenSigning          = &domain.Error{Kind: domain.KindInternal, Message: "Failed to sign token"}
)

// TokenService issues and verifies session tokens
type TokenService interface {
	Issue(subjectID, email string) (string, error)
	Verify(token string) (*domain.Claims, error)
}

// sessionClaims is the signed payload. sub carries the user id.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTTokenService implements TokenService with HS256 signed JWTs
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures a JWTTokenService
type TokenOption func(*JWTTokenService)

// WithClock overrides the time source used for issuing and verifying
func WithClock(now func() time.Time) TokenOption {
	return func(s *JWTTokenService) { s.now = now }
}

// WithTTL overrides DefaultTokenTTL
func WithTTL(ttl time.Duration) TokenOption {
	return func(s *JWTTokenService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewJWTTokenService creates a token service signing with secret
func NewJWTTokenService(secret string, opts ...TokenOption) *JWTTokenService {
	s := &JWTTokenService{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *JWTTokenService) Issue(subjectID, email string) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.Wrap(ErrTokenSigning, "token.Issue", err)
	}
	return signed, nil
}

func (s *JWTTokenService) Verify(tokenString string) (*domain.Claims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		// jwt rejects now >= exp; the exact check below keeps exp itself valid
		jwt.WithLeeway(time.Second),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.Wrap(ErrTokenExpired, "token.Verify", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, domain.Wrap(ErrTokenInvalidSignature, "token.Verify", err)
		default:
			return nil, domain.Wrap(ErrTokenMalformed, "token.Verify", err)
		}
	}

	if s.now().After(claims.ExpiresAt.Time) {
		return nil, domain.Wrap(ErrTokenExpired, "token.Verify", jwt.ErrTokenExpired)
	}

	if claims.Subject == "" {
		return nil, domain.Wrap(ErrTokenMalformed, "token.Verify", errors.New("missing subject"))
	}

	out := &domain.Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
