package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/app/services"
	"github.com/yigit/rosterhub/internal/middleware"
)

// AuthController handles guardian account registration and login
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register creates a guardian account
// @Summary Register a parent account
// @Description Creates a guardian account that can later request links to roster entries
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ParentRegisterRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=models.Parent} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid account data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.ParentRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	parent, err := c.authService.RegisterParent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      parent,
		Timestamp: time.Now(),
	})
}

// Login authenticates a guardian account
// @Summary Log in a parent account
// @Description Verifies credentials and returns an access token with the PARENT role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ParentLoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Token issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.ParentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	token, _, err := c.authService.LoginParent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      token,
		Timestamp: time.Now(),
	})
}
