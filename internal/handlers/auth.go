package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/secure-todo/internal/constants"
	apperrors "github.com/yukikurage/secure-todo/internal/errors"
	"github.com/yukikurage/secure-todo/internal/logger"
	"github.com/yukikurage/secure-todo/internal/services"
)

// AuthHandler coordinates the register, login and logout pages.
type AuthHandler struct {
	authService *services.AuthService
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

type credentialsForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	renderPage(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register creates a user and sends them to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		apperrors.Flash(c, apperrors.MsgCredentialsRequired)
		renderPage(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
		return
	}

	_, err := h.authService.Register(services.RegisterInput{
		Username: form.Username,
		Password: form.Password,
	})
	switch {
	case err == nil:
		apperrors.RedirectWithFlash(c, "/login", apperrors.MsgRegistered)
	case errors.Is(err, services.ErrCredentialsRequired):
		apperrors.Flash(c, apperrors.MsgCredentialsRequired)
		renderPage(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Username": form.Username})
	case errors.Is(err, services.ErrUsernameTaken):
		apperrors.RedirectWithFlash(c, "/register", apperrors.MsgUsernameTaken)
	default:
		requestLog(h.log, c).Errorf("registration failed: %v", err)
		apperrors.InternalError(c, "")
	}
}

// RegisterCSRFFailed re-renders the registration form after a rejected token.
func (h *AuthHandler) RegisterCSRFFailed(c *gin.Context, err error) {
	renderPage(c, http.StatusBadRequest, "register.html", gin.H{
		"Title":    "Register",
		"Error":    err.Error(),
		"Username": c.PostForm("username"),
	})
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	renderPage(c, http.StatusOK, "login.html", gin.H{"Title": "Login"})
}

// Login authenticates a user and stores their ID in the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var form credentialsForm
	_ = c.ShouldBind(&form)

	user, err := h.authService.Authenticate(services.LoginInput{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			requestLog(h.log, c).Errorf("login failed: %v", err)
			apperrors.InternalError(c, "")
			return
		}
		apperrors.Flash(c, apperrors.MsgInvalidCredentials)
		renderPage(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "Username": form.Username})
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, user.ID)
	apperrors.RedirectWithFlash(c, "/", apperrors.MsgLoginSuccess)
}

// LoginCSRFFailed re-renders the login form after a rejected token.
func (h *AuthHandler) LoginCSRFFailed(c *gin.Context, err error) {
	renderPage(c, http.StatusBadRequest, "login.html", gin.H{
		"Title":    "Login",
		"Error":    err.Error(),
		"Username": c.PostForm("username"),
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	apperrors.RedirectWithFlash(c, "/login", apperrors.MsgLoggedOut)
}
