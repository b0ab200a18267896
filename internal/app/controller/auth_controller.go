package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/filemart/filemart-backend/internal/app/service"
	apperrors "github.com/filemart/filemart-backend/internal/errors"
	"github.com/filemart/filemart-backend/internal/middleware"
)

type AuthController struct {
	authService  service.AuthService
	storeService service.StoreService
}

func NewAuthController(authService service.AuthService, storeService service.StoreService) *AuthController {
	return &AuthController{
		authService:  authService,
		storeService: storeService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// Register handles merchant registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The submitted information is not valid")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Registration failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "This email is already in use")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		return
	}

	log.Info("Merchant registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
		"tokens": tokens,
	})
}

// Login handles merchant login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The submitted information is not valid")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Incorrect email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
		"tokens": tokens,
	})
}

// Logout blacklists the current access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, ok := middleware.GetToken(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	// Blanket TTL comfortably beyond any access token lifetime
	expiry := 24 * time.Hour

	if err := ctrl.authService.Logout(c.Request.Context(), token, expiry); err != nil {
		log.Error("Logout failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("Merchant logged out", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated user and their store profile, if one
// exists
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.Unauthorized(c, "Authentication required")
			return
		}
		log.Error("Failed to load user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	response := gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	}

	store, err := ctrl.storeService.GetByUserID(userID)
	if err == nil {
		response["store"] = store
	} else if !errors.Is(err, service.ErrStoreNotFound) {
		log.Error("Failed to load store for user", err, map[string]interface{}{
			"user_id": userID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"user": response})
}

// UpdateProfile updates the authenticated user's account fields
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The submitted information is not valid")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.Unauthorized(c, "Authentication required")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
