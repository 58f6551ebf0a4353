package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/internal/dto"
	"github.com/ahmad-hanafi1/product-store-pern/internal/repository"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/logger"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/telemetry"
)

// AuthService defines the interface for identity operations
type AuthService interface {
	// Register creates an account and returns a session token for it
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	// Login checks credentials and returns a session token
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// ValidateToken verifies a session token and returns its claims
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	// GetUser retrieves user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// ListUsers returns every user, newest first
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenService
	log      *logger.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenService,
	log *logger.Logger,
) AuthService {
	if log == nil {
		log = logger.NewNop()
	}
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		log:      log,
	}
}

// Register creates a user. Existence is checked first and the unique
// constraint in the store decides any race between check and insert.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	const op = "auth.Register"

	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	req.Normalize()
	if ok, msg := req.Validate(); !ok {
		return nil, domain.E(domain.KindValidation, op, msg, nil)
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.internal(ctx, op, "lookup user", err)
	}
	if existing != nil {
		return nil, domain.Wrap(domain.ErrEmailInUse, op, nil)
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		if domain.KindOf(err) == domain.KindValidation {
			return nil, err
		}
		return nil, s.internal(ctx, op, "hash password", err)
	}

	user := &domain.User{
		ID:               uuid.New().String(),
		Email:            req.Email,
		PasswordHash:     digest,
		SubscriptionTier: domain.TierFree,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailInUse) {
			return nil, domain.Wrap(domain.ErrEmailInUse, op, err)
		}
		return nil, s.internal(ctx, op, "create user", err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	return s.issue(ctx, op, user)
}

// Login authenticates a user by email and password
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	const op = "auth.Login"

	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	req.Normalize()
	if ok, msg := req.Validate(); !ok {
		return nil, domain.E(domain.KindValidation, op, msg, nil)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.internal(ctx, op, "lookup user", err)
	}
	if user == nil {
		return nil, domain.Wrap(domain.ErrUserNotFound, op, nil)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, domain.Wrap(domain.ErrInvalidCredentials, op, nil)
	}

	return s.issue(ctx, op, user)
}

// ValidateToken validates a session token and returns claims
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	return s.tokens.Verify(token)
}

// GetUser retrieves user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	const op = "auth.GetUser"

	// ids are UUIDs; anything else cannot match a row
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.Wrap(domain.ErrUserNotFound, op, err)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.internal(ctx, op, "lookup user", err)
	}
	if user == nil {
		return nil, domain.Wrap(domain.ErrUserNotFound, op, nil)
	}
	return user, nil
}

// ListUsers returns every user
func (s *authService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, s.internal(ctx, "auth.ListUsers", "list users", err)
	}
	return users, nil
}

func (s *authService) issue(ctx context.Context, op string, user *domain.User) (*dto.TokenResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, s.internal(ctx, op, "issue token", err)
	}
	return &dto.TokenResponse{Token: token}, nil
}

// internal logs the full cause and returns an error carrying only the generic kind
func (s *authService) internal(ctx context.Context, op, step string, err error) error {
	telemetry.SetSpanError(ctx, err)
	s.log.Error("identity operation failed",
		zap.String("op", op),
		zap.String("step", step),
		zap.Error(err),
	)
	return domain.E(domain.KindInternal, op, step, err)
}
