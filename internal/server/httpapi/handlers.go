package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kodbank/kodbank/internal/common"
)

type registerRequest struct {
	Identity int64   `json:"identity"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Secret   string  `json:"secret"`
	Phone    *string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	err := s.accounts.Register(c.Request.Context(), req.Identity, req.Username, req.Email, req.Secret, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		case errors.Is(err, common.ErrorAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	token, expiresAt, err := s.accounts.Login(c.Request.Context(), req.Username, req.Secret)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// HTTP-only: the token must never be reachable from script.
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(cookieName, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "username": req.Username})
}

func (s *Server) handleBalance(c *gin.Context) {
	username := c.GetString(ctxUsernameKey)

	balance, err := s.accounts.Balance(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// handleLogout clears the client cookie and revokes the server-side session
// entry. Revocation is best effort: the cookie is cleared and 200 returned
// even when the registry delete fails.
func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		if err := s.accounts.Logout(c.Request.Context(), token); err != nil {
			s.logger.Error(c.Request.Context(), "session revocation failed", "error", err)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
