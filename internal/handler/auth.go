package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/identity"
	"github.com/VncsRaniery/habitask-sub001/internal/middleware"
	"github.com/VncsRaniery/habitask-sub001/internal/models"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockDuration    = 10 * time.Minute
	stateCookie     = "habitask_oauth_state"
)

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
	// Google is nil when Google sign-in is not configured.
	Google   identity.Provider
	HomePath string
}

func NewAuthHandler(db *gorm.DB, jwtSecret, issuer string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthHandler{
		DB:         db,
		JWTSecret:  jwtSecret,
		Issuer:     issuer,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
		HomePath:   "/dashboard",
	}
}

// ---------- sign-up ----------

type registerReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Invalid("Dados de cadastro inválidos"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := util.ValidateName(req.Name, 64); err != nil {
		util.Fail(c, err)
		return
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		util.Fail(c, err)
		return
	}

	ctx := c.Request.Context()
	_, err := identity.FindByEmail(ctx, h.DB, req.Email)
	switch {
	case err == nil:
		util.Fail(c, util.Invalid("E-mail já cadastrado"))
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		util.Fail(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Fail(c, err)
		return
	}

	user := models.User{
		Email:        identity.NormalizeEmail(req.Email),
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusCreated, gin.H{
		"message": "Cadastro realizado com sucesso",
		"user":    user,
	})
}

// ---------- sign-in ----------

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.Invalid("Dados de login inválidos"))
		return
	}

	ctx := c.Request.Context()
	user, err := identity.FindByEmail(ctx, h.DB, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusUnauthorized, "E-mail ou senha incorretos")
		} else {
			util.Fail(c, err)
		}
		return
	}

	now := time.Now()

	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, "Conta bloqueada temporariamente, tente novamente mais tarde")
		return
	}

	// OAuth-only accounts have no password
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			lockUntil := now.Add(lockDuration)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
		}
		if err := h.DB.WithContext(ctx).Model(user).Updates(map[string]any{
			"failed_login_attempts": user.FailedLoginAttempts,
			"locked_until":          user.LockedUntil,
		}).Error; err != nil {
			log.Printf("login: record failed attempt: %v", err)
		}
		util.Error(c, http.StatusUnauthorized, "E-mail ou senha incorretos")
		return
	}

	ip := c.ClientIP()
	if err := h.DB.WithContext(ctx).Model(user).Updates(map[string]any{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
		"last_login_ip":         ip,
	}).Error; err != nil {
		log.Printf("login: record success: %v", err)
	}

	token, err := h.issue(c, user)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout clears the session cookie. Tokens are stateless, so API clients
// simply drop theirs.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	util.Success(c, http.StatusOK, gin.H{"message": "Sessão encerrada"})
}

// issue signs a token for user, sets the session cookie and marks user as
// the principal of the current request.
func (h *AuthHandler) issue(c *gin.Context, user *models.User) (string, error) {
	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID, user.Email, h.TokenTTL)
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.TokenTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	c.Set(authz.ContextKey, user)
	return token, nil
}

// ---------- Google ----------

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.Google == nil {
		util.Error(c, http.StatusNotFound, "Login com Google não está habilitado")
		return
	}
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/api/auth/google", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, h.Google.AuthCodeURL(state))
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.Google == nil {
		util.Error(c, http.StatusNotFound, "Login com Google não está habilitado")
		return
	}

	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		util.Fail(c, util.Invalid("Estado de autenticação inválido"))
		return
	}
	c.SetCookie(stateCookie, "", -1, "/api/auth/google", "", c.Request.TLS != nil, true)

	code := c.Query("code")
	if code == "" {
		util.Fail(c, util.Invalid("Código de autorização ausente"))
		return
	}

	ctx := c.Request.Context()
	profile, err := h.Google.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, identity.ErrUnverifiedEmail) {
			util.Error(c, http.StatusUnauthorized, "E-mail do Google não verificado")
			return
		}
		log.Printf("google callback: %v", err)
		util.Error(c, http.StatusUnauthorized, "Falha ao autenticar com o Google")
		return
	}

	user, err := identity.UpsertUser(ctx, h.DB, profile)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if _, err := h.issue(c, user); err != nil {
		util.Fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.HomePath)
}
