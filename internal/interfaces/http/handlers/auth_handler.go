package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"promatch.backend/internal/domain/entities"
	domainerrors "promatch.backend/internal/domain/errors"
	"promatch.backend/internal/interfaces/http/middleware"
	"promatch.backend/internal/interfaces/http/response"
)

const refreshCookie = "refresh_token"

// AuthService is the account surface used by AuthHandler
type AuthService interface {
	Signup(ctx context.Context, input *entities.SignupInput) (*entities.AuthResponse, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*entities.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	Onboard(ctx context.Context, userID uuid.UUID, input *entities.OnboardInput) (*entities.User, error)
}

// CookieOptions controls the auth cookies
type CookieOptions struct {
	Secure        bool
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth    AuthService
	cookies CookieOptions
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AuthService, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

// Signup handles user registration
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var input entities.SignupInput
	if !bindJSON(c, &input) {
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSession(c, res)
	response.Success(c, http.StatusCreated, res)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	res, err := h.auth.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSession(c, res)
	response.Success(c, http.StatusOK, res)
}

// Logout clears the auth cookies
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSession(c)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// RefreshToken issues a new token pair from the body or the refresh cookie
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var refreshToken string
	if c.Request.ContentLength > 0 {
		var input struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(refreshCookie)
	}
	if refreshToken == "" {
		response.Error(c, domainerrors.MissingFields("refreshToken"))
		return
	}

	res, err := h.auth.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSession(c, res)
	response.Success(c, http.StatusOK, res)
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// Onboard completes the profile for the chosen role
// POST /api/v1/auth/onboarding
func (h *AuthHandler) Onboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input entities.OnboardInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.auth.Onboard(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *AuthHandler) setSession(c *gin.Context, res *entities.AuthResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, res.AccessToken, int(h.cookies.AccessMaxAge.Seconds()), "/", "", h.cookies.Secure, true)
	c.SetCookie(refreshCookie, res.RefreshToken, int(h.cookies.RefreshMaxAge.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *AuthHandler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(refreshCookie, "", -1, "/", "", h.cookies.Secure, true)
}
