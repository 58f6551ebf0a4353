package repository

import (
	"context"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

// UserRepository defines the interface for user data access.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	// Create inserts a user and fills generated fields.
	// A duplicate email yields domain.ErrEmailInUse.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns all users, newest first
	List(ctx context.Context) ([]*domain.User, error)
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// List returns all products ordered by id descending
	List(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	// Update returns (nil, nil) when the product does not exist
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// Delete reports whether a row was removed
	Delete(ctx context.Context, id int64) (bool, error)
}

// RecipeRepository defines the interface for saved recipe access.
// Every read and delete is scoped to the owning user.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.SavedRecipe) error
	ListByUser(ctx context.Context, userID string) ([]*domain.SavedRecipe, error)
	GetByID(ctx context.Context, userID string, id int64) (*domain.SavedRecipe, error)
	Delete(ctx context.Context, userID string, id int64) (bool, error)
}
