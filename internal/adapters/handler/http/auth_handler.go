package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidsbalance/balance-engine/internal/adapters/handler/http/middleware"
	"github.com/kidsbalance/balance-engine/internal/core/domain"
	"github.com/kidsbalance/balance-engine/internal/core/services"
)

type AuthHandler struct {
	service *services.AuthService
	tokens  *services.TokenService
}

func NewAuthHandler(service *services.AuthService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
	}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type childLoginRequest struct {
	FamilyID    string `json:"family_id" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	PIN         string `json:"pin" binding:"required"`
}

type addChildRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	PIN         string `json:"pin" binding:"required"`
}

type userResponse struct {
	ID          string `json:"id"`
	FamilyID    string `json:"family_id"`
	Role        string `json:"role"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		FamilyID:    u.FamilyID,
		Role:        u.Role,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

// RegisterRoutes mounts the public endpoints: account creation and both
// login flows.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/child-login", h.ChildLogin)
	}
}

// RegisterProtectedRoutes mounts child profile management for parents.
func (h *AuthHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/children", h.ListChildren)
		authGroup.POST("/children", middleware.RequireParent(), h.AddChild)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
		case errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		case errors.Is(err, domain.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": "password too short"})
		case errors.Is(err, domain.ErrInvalidDisplayName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func (h *AuthHandler) ChildLogin(c *gin.Context) {
	var req childLoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	child, err := h.service.ChildLogin(c.Request.Context(), services.ChildLoginInput{
		FamilyID:    req.FamilyID,
		DisplayName: req.DisplayName,
		PIN:         req.PIN,
	})
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.GenerateToken(child)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: toUserResponse(child)})
}

func (h *AuthHandler) AddChild(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	var req addChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	child, err := h.service.AddChild(c.Request.Context(), services.AddChildInput{
		FamilyID:    familyID,
		DisplayName: req.DisplayName,
		PIN:         req.PIN,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPIN), errors.Is(err, domain.ErrInvalidDisplayName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(child))
}

func (h *AuthHandler) ListChildren(c *gin.Context) {
	familyID, ok := middleware.GetFamilyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "family context missing"})
		return
	}

	children, err := h.service.ListChildren(c.Request.Context(), familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resp := make([]userResponse, 0, len(children))
	for _, child := range children {
		resp = append(resp, toUserResponse(child))
	}

	c.JSON(http.StatusOK, resp)
}
