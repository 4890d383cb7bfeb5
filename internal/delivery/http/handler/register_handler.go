package handler

import (
	"errors"
	"net/http"

	"github.com/globalconnect/backend/internal/domain"
	"github.com/globalconnect/backend/internal/usecase/register"
	"github.com/gin-gonic/gin"
)

type RegisterHandler struct {
	registerUseCase *register.RegisterUseCase
}

func NewRegisterHandler(registerUseCase *register.RegisterUseCase) *RegisterHandler {
	return &RegisterHandler{
		registerUseCase: registerUseCase,
	}
}

// Register handles POST /api/register
// @Summary Register a new user
// @Description Create a user with an optional one-time location capture
// @Tags users
// @Accept json
// @Produce json
// @Param request body register.RegisterRequest true "Registration data"
// @Success 201 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/register [post]
func (h *RegisterHandler) Register(c *gin.Context) {
	var req register.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	user, err := h.registerUseCase.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: "email already registered",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to register user",
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}
