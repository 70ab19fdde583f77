package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"kantin/internal/common"
	"kantin/internal/models"
	"kantin/internal/repositories"
	"kantin/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^[0-9]{6}$`)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	profileRepo repositories.ProfileRepository
	walletRepo  repositories.WalletRepository
	jwtSecret   string
	tokenTTL    time.Duration
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(profileRepo repositories.ProfileRepository, walletRepo repositories.WalletRepository, jwtSecret string) *AuthHandlers {
	return &AuthHandlers{
		profileRepo: profileRepo,
		walletRepo:  walletRepo,
		jwtSecret:   jwtSecret,
		tokenTTL:    24 * time.Hour,
	}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
	Role     string `json:"role"`
}

// Signup creates a profile and its zero-balance wallet.
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return common.SendValidationError(c, "email", "A valid email is required")
	}
	if len(req.Password) < 6 {
		return common.SendValidationError(c, "password", "Password must be at least 6 characters")
	}
	if !pinPattern.MatchString(req.PIN) {
		return common.SendValidationError(c, "pin", "PIN must be exactly 6 digits")
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if req.Role != models.RoleStudent && req.Role != models.RoleCanteen {
		return common.SendValidationError(c, "role", "Role must be student or canteen")
	}

	existing, err := h.profileRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return common.SendServerError(c, "Failed to check existing account")
	}
	if existing != nil {
		return common.SendConflictError(c, "Email already registered")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return common.SendServerError(c, "Failed to create account")
	}
	pinHash, err := services.HashPIN(req.PIN)
	if err != nil {
		return common.SendServerError(c, "Failed to create account")
	}

	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		PasswordHash: string(passwordHash),
	}
	if err := h.profileRepo.Create(ctx, profile); err != nil {
		return common.SendServerError(c, "Failed to create account")
	}

	wallet := &models.Wallet{
		UserID:  profile.ID,
		Balance: 0,
		PINHash: pinHash,
	}
	if err := h.walletRepo.Create(ctx, wallet); err != nil {
		return common.SendServerError(c, "Failed to create wallet")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Account created successfully",
		"profile": profile,
	})
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	profile, err := h.profileRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		return common.SendServerError(c, "Failed to look up account")
	}
	if profile == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  profile.ID.String(),
		"role": profile.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(h.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return common.SendServerError(c, "Failed to issue token")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(h.tokenTTL.Seconds()),
		"user":         profile,
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	profile, err := h.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to load profile")
	}
	if profile == nil {
		return common.SendNotFoundError(c, "Profile")
	}
	return c.JSON(http.StatusOK, profile)
}

// ListPeers returns other students, for picking a transfer recipient.
func (h *AuthHandlers) ListPeers(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	peers, err := h.profileRepo.ListPeers(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to list students")
	}
	return c.JSON(http.StatusOK, peers)
}
