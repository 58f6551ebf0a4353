package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

const recipeColumns = `id, user_id, recipe_title, description, ingredients, instructions,
	prep_time_minutes, servings, created_at`

// PostgresRecipeRepository implements RecipeRepository using PostgreSQL
type PostgresRecipeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRecipeRepository creates a new PostgresRecipeRepository
func NewPostgresRecipeRepository(pool *pgxpool.Pool) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{pool: pool}
}

// Create saves a recipe. Ingredients and instructions are stored as JSONB arrays.
func (r *PostgresRecipeRepository) Create(ctx context.Context, recipe *domain.SavedRecipe) error {
	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	instructions, err := json.Marshal(recipe.Instructions)
	if err != nil {
		return fmt.Errorf("failed to marshal instructions: %w", err)
	}

	query := `
		INSERT INTO saved_recipes (user_id, recipe_title, description, ingredients, instructions, prep_time_minutes, servings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err = r.pool.QueryRow(ctx, query,
		recipe.UserID,
		recipe.Title,
		recipe.Description,
		ingredients,
		instructions,
		recipe.PrepTimeMinutes,
		recipe.Servings,
	).Scan(&recipe.ID, &recipe.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// ListByUser returns a user's saved recipes, newest first
func (r *PostgresRecipeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavedRecipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM saved_recipes WHERE user_id = $1 ORDER BY id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]*domain.SavedRecipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// GetByID returns the recipe only if it belongs to userID
func (r *PostgresRecipeRepository) GetByID(ctx context.Context, userID string, id int64) (*domain.SavedRecipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM saved_recipes WHERE id = $1 AND user_id = $2`
	return scanRecipe(r.pool.QueryRow(ctx, query, id, userID))
}

// Delete removes the recipe only if it belongs to userID
func (r *PostgresRecipeRepository) Delete(ctx context.Context, userID string, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saved_recipes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete recipe: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanRecipe(row pgx.Row) (*domain.SavedRecipe, error) {
	rec := &domain.SavedRecipe{}
	var ingredients, instructions []byte
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Title,
		&rec.Description,
		&ingredients,
		&instructions,
		&rec.PrepTimeMinutes,
		&rec.Servings,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}
	if err := json.Unmarshal(ingredients, &rec.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	if err := json.Unmarshal(instructions, &rec.Instructions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instructions: %w", err)
	}
	return rec, nil
}
