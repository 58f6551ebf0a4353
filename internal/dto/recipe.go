package dto

import "strings"

const maxIngredients = 50

// GenerateRecipeRequest lists the ingredients to cook with
type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients"`
}

// Normalize trims entries and drops blanks
func (r *GenerateRecipeRequest) Normalize() {
	cleaned := r.Ingredients[:0]
	for _, ing := range r.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}
	r.Ingredients = cleaned
}

// Validate requires at least one ingredient
func (r *GenerateRecipeRequest) Validate() (bool, string) {
	if len(r.Ingredients) == 0 {
		return false, "Ingredients array is required"
	}
	if len(r.Ingredients) > maxIngredients {
		return false, "Too many ingredients"
	}
	return true, ""
}
