package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/internal/dto"
)

type failingHasher struct{ err error }

func (h failingHasher) Hash(string) (string, error) { return "", h.err }
func (h failingHasher) Verify(string, string) bool  { return false }

func newTestAuthService(repo *mockUserRepository) (AuthService, *JWTTokenService) {
	tokens := NewJWTTokenService("test-secret")
	return NewAuthService(repo, NewBcryptHasher(bcrypt.MinCost), tokens, nil), tokens
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	repo := newMockUserRepository()
	svc, tokens := newTestAuthService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{Email: "cook@example.com", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)

	user, _ := repo.GetByEmail(ctx, "cook@example.com")
	require.NotNil(t, user)
	assert.Equal(t, domain.TierFree, user.SubscriptionTier)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	regClaims, err := tokens.Verify(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, regClaims.UserID)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "cook@example.com", Password: "s3cret"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "cook@example.com", claims.Email)
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)

	tests := []struct {
		name string
		req  *dto.RegisterRequest
	}{
		{"missing email", &dto.RegisterRequest{Password: "pw"}},
		{"missing password", &dto.RegisterRequest{Email: "cook@example.com"}},
		{"bad email", &dto.RegisterRequest{Email: "cook", Password: "pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
	assert.Zero(t, repo.count())
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "cook@example.com", Password: "one"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "cook@example.com", Password: "two"})
	assert.True(t, errors.Is(err, domain.ErrEmailInUse))
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, 1, repo.count())
}

func TestAuthService_Register_ConstraintRace(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "cook@example.com", Password: "one"})
	require.NoError(t, err)

	// The existence check misses, the insert hits the unique constraint
	repo.emailLookupMiss = true
	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "cook@example.com", Password: "two"})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, 1, repo.count())
}

func TestAuthService_Register_Concurrent(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "race@example.com", Password: "pw"})
			mu.Lock()
			defer mu.Unlock()
			switch domain.KindOf(err) {
			case domain.KindConflict:
				conflicts++
			default:
				if err == nil {
					successes++
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, repo.count())
}

func TestAuthService_Register_StoreFailureIsInternal(t *testing.T) {
	repo := newMockUserRepository()
	repo.createError = errors.New("connection reset by peer")
	svc, _ := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "cook@example.com", Password: "pw"})
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Equal(t, "Internal server error", domain.MessageOf(err))
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewAuthService(repo, failingHasher{err: errors.New("entropy exhausted")}, NewJWTTokenService("s"), nil)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "cook@example.com", Password: "pw"})
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Zero(t, repo.count())
}

func TestAuthService_Login_Failures(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "cook@example.com", Password: "right"})
	require.NoError(t, err)
	before, _ := repo.GetByEmail(ctx, "cook@example.com")
	hashBefore := before.PasswordHash

	tests := []struct {
		name string
		req  *dto.LoginRequest
		want domain.Kind
	}{
		{"missing fields", &dto.LoginRequest{Email: "cook@example.com"}, domain.KindValidation},
		{"unknown email", &dto.LoginRequest{Email: "ghost@example.com", Password: "right"}, domain.KindNotFound},
		{"wrong password", &dto.LoginRequest{Email: "cook@example.com", Password: "wrong"}, domain.KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(ctx, tt.req)
			assert.Nil(t, resp)
			assert.Equal(t, tt.want, domain.KindOf(err))
		})
	}

	after, _ := repo.GetByEmail(ctx, "cook@example.com")
	assert.Equal(t, hashBefore, after.PasswordHash)
	assert.Equal(t, 1, repo.count())
}

func TestAuthService_Login_LookupFailure(t *testing.T) {
	repo := newMockUserRepository()
	repo.getErr = errors.New("timeout")
	svc, _ := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "cook@example.com", Password: "pw"})
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestAuthService_TokenExpiresAfterAnHour(t *testing.T) {
	clock := newTestClock()
	tokens := NewJWTTokenService("test-secret", WithClock(clock.Now))
	svc := NewAuthService(newMockUserRepository(), NewBcryptHasher(bcrypt.MinCost), tokens, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: "cook@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)
	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthService_GetUser(t *testing.T) {
	repo := newMockUserRepository()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "cook@example.com", Password: "pw"})
	require.NoError(t, err)
	u, _ := repo.GetByEmail(ctx, "cook@example.com")

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthService_GetUserRejectsNonUUID(t *testing.T) {
	repo := newMockUserRepository()
	// the store would fail casting the id; the lookup must not reach it
	repo.getErr = errors.New(`invalid input syntax for type uuid: "user-1"`)
	svc, _ := newTestAuthService(repo)

	_, err := svc.GetUser(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
