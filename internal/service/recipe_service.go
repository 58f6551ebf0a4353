package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/internal/dto"
	"github.com/ahmad-hanafi1/product-store-pern/internal/gateway"
	"github.com/ahmad-hanafi1/product-store-pern/internal/repository"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/logger"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/telemetry"
)

var ErrRecipeGeneration = &domain.Error{Kind: domain.KindInternal, Message: "Failed to generate recipe. Please try again."}

// RecipeService generates and manages a user's saved recipes
type RecipeService interface {
	Generate(ctx context.Context, userID string, req *dto.GenerateRecipeRequest) (*domain.SavedRecipe, error)
	List(ctx context.Context, userID string) ([]*domain.SavedRecipe, error)
	Get(ctx context.Context, userID string, id int64) (*domain.SavedRecipe, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type recipeService struct {
	repo      repository.RecipeRepository
	generator gateway.RecipeGenerator
	log       *logger.Logger
}

// NewRecipeService creates a new RecipeService
func NewRecipeService(repo repository.RecipeRepository, generator gateway.RecipeGenerator, log *logger.Logger) RecipeService {
	if log == nil {
		log = logger.NewNop()
	}
	return &recipeService{repo: repo, generator: generator, log: log}
}

func (s *recipeService) Generate(ctx context.Context, userID string, req *dto.GenerateRecipeRequest) (*domain.SavedRecipe, error) {
	const op = "recipe.Generate"

	ctx, span := telemetry.StartSpan(ctx, "service.recipe.generate")
	defer span.End()

	req.Normalize()
	if ok, msg := req.Validate(); !ok {
		return nil, domain.E(domain.KindValidation, op, msg, nil)
	}

	recipe, err := s.generator.Generate(ctx, req.Ingredients)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		s.log.Error("recipe generation failed",
			zap.String("generator", s.generator.Name()),
			zap.Int("ingredients", len(req.Ingredients)),
			zap.Error(err),
		)
		return nil, domain.Wrap(ErrRecipeGeneration, op, err)
	}

	saved := &domain.SavedRecipe{
		UserID:          userID,
		Title:           recipe.Title,
		Description:     recipe.Description,
		Ingredients:     recipe.Ingredients,
		Instructions:    recipe.Instructions,
		PrepTimeMinutes: recipe.PrepTimeMinutes,
		Servings:        recipe.Servings,
	}
	if err := s.repo.Create(ctx, saved); err != nil {
		return nil, s.internal(op, err)
	}
	return saved, nil
}

func (s *recipeService) List(ctx context.Context, userID string) ([]*domain.SavedRecipe, error) {
	recipes, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.internal("recipe.List", err)
	}
	return recipes, nil
}

func (s *recipeService) Get(ctx context.Context, userID string, id int64) (*domain.SavedRecipe, error) {
	const op = "recipe.Get"

	recipe, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.internal(op, err)
	}
	if recipe == nil {
		return nil, domain.Wrap(domain.ErrRecipeNotFound, op, nil)
	}
	return recipe, nil
}

func (s *recipeService) Delete(ctx context.Context, userID string, id int64) error {
	const op = "recipe.Delete"

	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return s.internal(op, err)
	}
	if !deleted {
		return domain.Wrap(domain.ErrRecipeNotFound, op, nil)
	}
	return nil
}

func (s *recipeService) internal(op string, err error) error {
	s.log.Error("recipe operation failed", zap.String("op", op), zap.Error(err))
	return domain.E(domain.KindInternal, op, "store failure", err)
}
