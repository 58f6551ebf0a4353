package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/internal/dto"
	"github.com/ahmad-hanafi1/product-store-pern/internal/middleware"
	"github.com/ahmad-hanafi1/product-store-pern/internal/service"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/response"
)

// RecipeHandler serves the caller's saved recipes. All routes sit behind the auth gate.
type RecipeHandler struct {
	recipeService service.RecipeService
}

func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// Generate handles POST /api/recipes/generate
func (h *RecipeHandler) Generate(c *gin.Context) {
	var req dto.GenerateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	saved, err := h.recipeService.Generate(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrRecipeGeneration) {
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, service.ErrRecipeGeneration.Message)
			return
		}
		writeError(c, err)
		return
	}

	response.Success(c, saved)
}

// List handles GET /api/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	recipes, err := h.recipeService.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if recipes == nil {
		recipes = []*domain.SavedRecipe{}
	}

	response.Success(c, recipes)
}

// Get handles GET /api/recipes/:recipeId
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "recipeId")
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, recipe)
}

// Delete handles DELETE /api/recipes/:recipeId
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "recipeId")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Recipe deleted", dto.DeletedResponse{ID: id})
}
