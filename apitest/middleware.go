package apitest

import (
	"net/http"
	"strconv"
	"strings"

	"roomrental/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func routeKey(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return c.Request.Method + " " + path
}

// recordCalls counts every request per route and keeps its auth header.
func (s *Server) recordCalls() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.calls[routeKey(c)]++
		s.authHeaders = append(s.authHeaders, c.GetHeader("Authorization"))
		s.requestIDs = append(s.requestIDs, c.GetHeader("X-Request-ID"))
		s.mu.Unlock()
		c.Next()
	}
}

// cannedResponses short-circuits routes configured with Respond.
func (s *Server) cannedResponses() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		resp, ok := s.canned[routeKey(c)]
		s.mu.Unlock()
		if !ok {
			c.Next()
			return
		}
		if resp.body == "" {
			c.AbortWithStatus(resp.status)
			return
		}
		c.Data(resp.status, "application/json", []byte(resp.body))
		c.Abort()
	}
}

// requireToken accepts only bearer tokens this server issued.
func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Full authentication is required to access this resource"})
			return
		}
		token, err := utils.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "), s.secret)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token subject"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func notFound(c *gin.Context, what string, id int64) {
	c.JSON(http.StatusNotFound, gin.H{
		"message": what + " not found with id: " + strconv.FormatInt(id, 10),
		"error":   "Not Found",
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg, "error": "Bad Request"})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
