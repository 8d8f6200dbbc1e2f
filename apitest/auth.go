package apitest

import (
	"net/http"

	"roomrental/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) signin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Bad credentials", "error": "Unauthorized"})
		return
	}
	s.respondAuth(c, acc)
}

func (s *Server) signup(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
		return
	}

	s.mu.Lock()
	if _, taken := s.accounts[req.Username]; taken {
		s.mu.Unlock()
		badRequest(c, "Username is already taken!")
		return
	}
	s.addAccountLocked(req.Username, req.Email, req.FirstName, req.LastName, req.PhoneNumber, string(req.UserType), hash)
	acc := s.accounts[req.Username]
	s.mu.Unlock()

	s.respondAuth(c, acc)
}

func (s *Server) respondAuth(c *gin.Context, acc *account) {
	token, err := s.issueToken(acc.profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not issue token"})
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{
		Token:     token,
		Type:      "Bearer",
		ID:        acc.profile.ID,
		Username:  acc.profile.Username,
		Email:     acc.profile.Email,
		FirstName: acc.profile.FirstName,
		LastName:  acc.profile.LastName,
		Role:      acc.role,
	})
}
