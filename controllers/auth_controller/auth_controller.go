package auth_controller

import (
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/clients"
	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/middlewares/auth"
	"github.com/rentfest/web/models"
	"github.com/rentfest/web/sessions"
)

// AuthController handles login, registration and logout.
type AuthController struct {
	Client *clients.RentfestClient
	Store  sessions.Store
}

func NewAuthController(client *clients.RentfestClient, store sessions.Store) *AuthController {
	return &AuthController{Client: client, Store: store}
}

func (ac *AuthController) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Error": c.Query("err"),
		"Msg":   c.Query("msg"),
	})
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Login validates the form, authenticates against the backend, stores the
// session and routes by role: admins land on the dashboard, everyone else
// on the home page.
func (ac *AuthController) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/login?err="+url.QueryEscape("Invalid form data"))
		return
	}

	email := strings.TrimSpace(form.Email)
	if email == "" || form.Password == "" {
		c.Redirect(http.StatusFound, "/login?err="+url.QueryEscape("Please fill in both fields."))
		return
	}

	result, err := ac.Client.Login(c.Request.Context(), email, form.Password)
	if err != nil {
		logger.WarnLogger.Warnf("Login failed for %s: %v", email, err)
		c.Redirect(http.StatusFound, "/login?err="+url.QueryEscape(loginErrorMessage(err)))
		return
	}

	sess := &models.Session{
		Token:    result.Token,
		Username: result.Username,
		Role:     result.Role,
		Email:    email,
		UserID:   result.UserID,
	}
	sid, err := ac.Store.Save(c.Request.Context(), sess)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to persist session for %s: %v", email, err)
		c.Redirect(http.StatusFound, "/login?err="+url.QueryEscape("Login failed. Please try again."))
		return
	}
	auth.SetSessionCookie(c, sid, ac.Store.TTL())

	logger.InfoLogger.Infof("User %s logged in with role %s", result.Username, result.Role)

	switch result.Role {
	case "admin":
		c.Redirect(http.StatusFound, "/admin")
	default:
		c.Redirect(http.StatusFound, "/")
	}
}

func (ac *AuthController) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Error": c.Query("err"),
	})
}

type registerForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

// Register validates the form locally before any network call: all fields
// present, a parseable email, matching passwords.
func (ac *AuthController) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, "/signup?err="+url.QueryEscape("Invalid form data"))
		return
	}

	username := strings.TrimSpace(form.Username)
	email := strings.TrimSpace(form.Email)

	if username == "" || email == "" || form.Password == "" || form.ConfirmPassword == "" {
		c.Redirect(http.StatusFound, "/signup?err="+url.QueryEscape("Please fill in all fields."))
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		c.Redirect(http.StatusFound, "/signup?err="+url.QueryEscape("Please enter a valid email address."))
		return
	}
	if form.Password != form.ConfirmPassword {
		c.Redirect(http.StatusFound, "/signup?err="+url.QueryEscape("Passwords do not match."))
		return
	}

	payload := models.RegisterPayload{Username: username, Email: email, Password: form.Password}
	if err := ac.Client.Register(c.Request.Context(), payload); err != nil {
		logger.WarnLogger.Warnf("Registration failed for %s: %v", email, err)
		c.Redirect(http.StatusFound, "/signup?err="+url.QueryEscape(loginErrorMessage(err)))
		return
	}

	logger.InfoLogger.Infof("User %s registered", username)
	c.Redirect(http.StatusFound, "/login?msg="+url.QueryEscape("Registration successful! Please log in."))
}

// Logout deletes the session record and clears the cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	if sid, err := c.Cookie(sessions.CookieName); err == nil && sid != "" {
		if err := ac.Store.Delete(c.Request.Context(), sid); err != nil {
			logger.ErrorLogger.Errorf("Failed to delete session on logout: %v", err)
		}
	}
	auth.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// loginErrorMessage surfaces the backend's own wording when there is one,
// else a generic fallback.
func loginErrorMessage(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}
