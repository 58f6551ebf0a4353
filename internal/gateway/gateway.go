package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
)

// ErrEmptyResponse is returned when the model produced no usable content
var ErrEmptyResponse = errors.New("generator returned no content")

// RecipeGenerator turns a list of ingredients into a structured recipe
type RecipeGenerator interface {
	Generate(ctx context.Context, ingredients []string) (*domain.Recipe, error)
	// Name returns the generator name
	Name() string
}

// NewRecipeGenerator picks the Gemini generator when an API key is set and the mock otherwise
func NewRecipeGenerator(ctx context.Context, apiKey, model string) (RecipeGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return NewMockGenerator(), nil
	}
	return NewGeminiGenerator(ctx, apiKey, model)
}

func buildPrompt(ingredients []string) string {
	return fmt.Sprintf("You are a creative chef. Create a simple and delicious recipe using ONLY the following ingredients: %s. "+
		"For the final recipe's ingredient list, specify the exact quantity and unit for each item "+
		`(e.g., "1 tbsp salt", "100g carrots", "1/2 onion"). `+
		"Also, provide an estimated total preparation time in minutes. "+
		"Provide a short, enticing description for the recipe. Provide how many portions this recipe serves.",
		strings.Join(ingredients, ", "))
}

// decodeRecipe parses the model's JSON payload and rejects recipes missing required parts
func decodeRecipe(raw string) (*domain.Recipe, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	if recipe.Title == "" || len(recipe.Ingredients) == 0 || len(recipe.Instructions) == 0 {
		return nil, fmt.Errorf("recipe is incomplete")
	}
	return &recipe, nil
}
