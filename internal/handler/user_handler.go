package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tasktracker/internal/logger"
	"tasktracker/internal/model"
	"tasktracker/internal/ports"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID uint64) (string, error)
}

type UserHandler struct {
	repo   UserRepository
	tokens TokenIssuer
}

func NewUserHandler(repo UserRepository, tokens TokenIssuer) *UserHandler {
	return &UserHandler{repo: repo, tokens: tokens}
}

type RegisterRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Name         string  `json:"name" binding:"required,min=2"`
	Password     string  `json:"password" binding:"required,min=6"`
	DepartmentID *uint64 `json:"department_id" binding:"omitempty,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID           uint64  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	DepartmentID *uint64 `json:"department_id,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register godoc
// @Summary      Register a new employee
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user  body      RegisterRequest  true  "Account"
// @Success      201   {object}  AuthResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()

	existing, err := h.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		h.internalError(c, "find user by email", err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "User with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalError(c, "hash password", err)
		return
	}

	user := &model.User{
		Email:          req.Email,
		Username:       strings.TrimSpace(req.Name),
		HashedPassword: string(hash),
		Role:           model.RoleEmployee,
		DepartmentID:   req.DepartmentID,
	}
	if err := h.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "User with this email already exists"})
			return
		}
		h.internalError(c, "create user", err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// Login godoc
// @Summary      Exchange credentials for a token
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        credentials  body      LoginRequest  true  "Credentials"
// @Success      200          {object}  AuthResponse
// @Failure      401          {object}  ErrorResponse
// @Router       /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		h.internalError(c, "find user by email", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

func (h *UserHandler) respondWithToken(c *gin.Context, status int, user *model.User) {
	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		h.internalError(c, "generate token", err)
		return
	}

	c.JSON(status, AuthResponse{
		Token: token,
		User: UserResponse{
			ID:           user.ID,
			Email:        user.Email,
			Name:         user.Username,
			Role:         string(user.Role),
			DepartmentID: user.DepartmentID,
		},
	})
}

func (h *UserHandler) internalError(c *gin.Context, op string, err error) {
	logger.FromContext(c.Request.Context(), zap.L()).Error("auth request failed", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
