package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func TestJWTTokenService_IssueVerify(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTTokenService("test-secret", WithClock(clock.Now))

	token, err := svc.Issue("user-1", "cook@example.com")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "cook@example.com", claims.Email)
	assert.True(t, clock.Now().Equal(claims.IssuedAt))
	assert.True(t, clock.Now().Add(time.Hour).Equal(claims.ExpiresAt))
}

func TestJWTTokenService_Expiry(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTTokenService("test-secret", WithClock(clock.Now))

	token, err := svc.Issue("user-1", "cook@example.com")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = svc.Verify(token)
	assert.NoError(t, err, "token should be valid before expiry")

	clock.Advance(2 * time.Minute)
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, ErrTokenExpired), "got %v", err)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestJWTTokenService_ExpiresStrictlyAfterExp(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTTokenService("test-secret", WithClock(clock.Now))

	token, err := svc.Issue("user-1", "cook@example.com")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	claims, err := svc.Verify(token)
	require.NoError(t, err, "token is still valid at exactly exp")
	assert.True(t, clock.Now().Equal(claims.ExpiresAt))

	clock.Advance(time.Nanosecond)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	clock.Advance(time.Second)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTTokenService_WithTTL(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTTokenService("test-secret", WithClock(clock.Now), WithTTL(5*time.Minute))

	token, _ := svc.Issue("user-1", "cook@example.com")
	clock.Advance(6 * time.Minute)

	_, err := svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTTokenService_InvalidSignature(t *testing.T) {
	issuer := NewJWTTokenService("secret-a")
	verifier := NewJWTTokenService("secret-b")

	token, err := issuer.Issue("user-1", "cook@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestJWTTokenService_TamperedPayload(t *testing.T) {
	svc := NewJWTTokenService("secret")
	token, _ := svc.Issue("user-1", "cook@example.com")
	other, _ := svc.Issue("user-2", "other@example.com")

	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err := svc.Verify(forged)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestJWTTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewJWTTokenService("secret")

	claims := jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestJWTTokenService_Malformed(t *testing.T) {
	svc := NewJWTTokenService("secret")

	for _, token := range []string{"", "garbage", "a.b.c", "x.y"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestJWTTokenService_MissingSubject(t *testing.T) {
	svc := NewJWTTokenService("secret")

	claims := jwt.MapClaims{"email": "cook@example.com", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestJWTTokenService_RequiresExpiry(t *testing.T) {
	svc := NewJWTTokenService("secret")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}
