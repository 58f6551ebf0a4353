package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/internal/dto"
	"github.com/ahmad-hanafi1/product-store-pern/internal/service"
)

// MockRecipeService is a mock implementation of RecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Generate(ctx context.Context, userID string, req *dto.GenerateRecipeRequest) (*domain.SavedRecipe, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedRecipe), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, userID string) ([]*domain.SavedRecipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SavedRecipe), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, userID string, id int64) (*domain.SavedRecipe, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedRecipe), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, userID string, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func setupRecipeRouter(svc *MockRecipeService) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})

	h := NewRecipeHandler(svc)
	recipes := router.Group("/api/recipes")
	{
		recipes.POST("/generate", h.Generate)
		recipes.GET("", h.List)
		recipes.GET("/:recipeId", h.Get)
		recipes.DELETE("/:recipeId", h.Delete)
	}
	return router
}

func TestRecipeHandler_Generate(t *testing.T) {
	svc := new(MockRecipeService)
	router := setupRecipeRouter(svc)

	saved := &domain.SavedRecipe{ID: 7, UserID: "user-1", Title: "Egg fried rice", Ingredients: []string{"egg", "rice"}}
	svc.On("Generate", mock.Anything, "user-1", mock.AnythingOfType("*dto.GenerateRecipeRequest")).Return(saved, nil).Once()

	w := doJSON(router, http.MethodPost, "/api/recipes/generate", map[string][]string{"ingredients": {"egg", "rice"}})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data domain.SavedRecipe `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.Data.ID)
	assert.Equal(t, "Egg fried rice", resp.Data.Title)
	svc.AssertExpectations(t)
}

func TestRecipeHandler_GenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "no ingredients",
			err:     domain.E(domain.KindValidation, "recipe.Generate", "Ingredients array is required", nil),
			status:  http.StatusBadRequest,
			message: "Ingredients array is required",
		},
		{
			name:    "generator down",
			err:     domain.Wrap(service.ErrRecipeGeneration, "recipe.Generate", errors.New("googleapi: 503")),
			status:  http.StatusInternalServerError,
			message: "Failed to generate recipe. Please try again.",
		},
		{
			name:    "store failure",
			err:     domain.E(domain.KindInternal, "recipe.Generate", "save recipe", errors.New("disk full")),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRecipeService)
			router := setupRecipeRouter(svc)
			svc.On("Generate", mock.Anything, "user-1", mock.Anything).Return(nil, tt.err)

			w := doJSON(router, http.MethodPost, "/api/recipes/generate", map[string][]string{"ingredients": {}})
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w).Message)
		})
	}
}

func TestRecipeHandler_ListGetDelete(t *testing.T) {
	svc := new(MockRecipeService)
	router := setupRecipeRouter(svc)

	svc.On("List", mock.Anything, "user-1").Return(nil, nil)
	svc.On("Get", mock.Anything, "user-1", int64(3)).Return(&domain.SavedRecipe{ID: 3, UserID: "user-1"}, nil)
	svc.On("Get", mock.Anything, "user-1", int64(4)).Return(nil, domain.ErrRecipeNotFound)
	svc.On("Delete", mock.Anything, "user-1", int64(3)).Return(nil)
	svc.On("Delete", mock.Anything, "user-1", int64(4)).Return(domain.ErrRecipeNotFound)

	w := doJSON(router, http.MethodGet, "/api/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/api/recipes/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/recipes/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/recipes/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/recipes/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/api/recipes/x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	router := gin.New()
	up := NewHealthHandler("product-store", map[string]HealthChecker{"database": stubChecker{}}, nil)
	down := NewHealthHandler("product-store", map[string]HealthChecker{"database": stubChecker{err: errors.New("dial tcp: refused")}}, nil)
	router.GET("/health", up.Health)
	router.GET("/ready", up.Ready)
	router.GET("/ready-down", down.Ready)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","service":"product-store","database":"connected"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready-down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "refused")
}
