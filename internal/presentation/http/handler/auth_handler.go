package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/ferrigb/sistema-nota/internal/application/service"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/dto/request"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/dto/response"
	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/gin-gonic/gin"
)

//go:embed templates/login.html
var templateFS embed.FS

var loginTemplate = template.Must(template.ParseFS(templateFS, "templates/login.html"))

// SessionCookie describes the cookie carrying the session token
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	cookie      SessionCookie
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cookie SessionCookie) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "session"
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

type loginPage struct {
	Username string
	Error    string
}

// LoginPage renders the HTML login form
func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, loginPage{})
}

// Login handles operator login
// @Summary Login
// @Description Authenticate the operator and start a session. Accepts a form post or JSON.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json,html
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	isForm := c.ContentType() != gin.MIMEJSON

	var req request.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		if isForm {
			h.renderLogin(c, http.StatusBadRequest, loginPage{Username: req.Username, Error: "Informe usuário e senha"})
			return
		}
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if isForm && apperror.GetAppError(err).Code == http.StatusUnauthorized {
			h.renderLogin(c, http.StatusUnauthorized, loginPage{Username: req.Username, Error: "Usuário ou senha inválidos"})
			return
		}
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, output.AccessToken, h.cookie.MaxAge)

	if isForm {
		c.Redirect(http.StatusFound, "/")
		return
	}
	response.OK(c, "Login successful", gin.H{
		"user":         output.User,
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   int(h.cookie.MaxAge.Seconds()),
	})
}

// Logout clears the session cookie. Browsers are sent back to the login page.
// @Summary Logout
// @Tags auth
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)

	if c.Request.Method == http.MethodGet || strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	response.OK(c, "Logout successful", nil)
}

// Me returns the logged in operator
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /api/user [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", user)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge time.Duration) {
	seconds := int(maxAge.Seconds())
	if maxAge < 0 {
		seconds = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, seconds, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, page loginPage) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := loginTemplate.Execute(c.Writer, page); err != nil {
		_ = c.Error(err)
	}
}
