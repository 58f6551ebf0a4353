package domain

import "time"

// Recipe is a generated recipe before it is saved
type Recipe struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Ingredients     []string `json:"ingredients"`
	Instructions    []string `json:"instructions"`
	PrepTimeMinutes int      `json:"prep_time_minutes"`
	Servings        int      `json:"servings"`
}

// SavedRecipe is a recipe persisted for a user
type SavedRecipe struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"recipe_title"`
	Description     string    `json:"description"`
	Ingredients     []string  `json:"ingredients"`
	Instructions    []string  `json:"instructions"`
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	Servings        int       `json:"servings"`
	CreatedAt       time.Time `json:"created_at"`
}
