package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ahmad-hanafi1/product-store-pern/internal/dto"
	"github.com/ahmad-hanafi1/product-store-pern/internal/service"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/response"
)

// UserHandler serves the protected user listing
type UserHandler struct {
	authService service.AuthService
}

func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// List handles GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	response.Success(c, out)
}
