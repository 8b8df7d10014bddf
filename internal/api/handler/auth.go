package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"servigo/backend/internal/storage"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// CurrentUser is the authenticated identity attached to a request or socket.
type CurrentUser struct {
	ID       uint
	Username string
	Role     string
}

const currentUserKey = "current_user"

// Login verifies credentials and issues a session token carrying
// {id, username, role}.
func (h *Handler) Login(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "username and password are required"})
		return
	}

	user, err := h.Storage.GetUserByUsername(body.Username)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !user.CheckPassword(body.Password)) {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "login failed"})
		return
	}

	token, err := h.generateToken(CurrentUser{ID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) generateToken(user CurrentUser) (string, error) {
	claims := jwt.MapClaims{
		"sub":      float64(user.ID),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
		"iss":      "servigo-backend",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

func (h *Handler) parseToken(tokenString string) (*CurrentUser, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, errors.New("invalid subject")
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	return &CurrentUser{ID: uint(sub), Username: username, Role: role}, nil
}

// AuthRequired rejects requests without a valid bearer token and attaches the
// CurrentUser to the gin context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.userFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "authentication required"})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// userFromRequest extracts the session identity from the Authorization header
// or, for websocket upgrades where browsers cannot set headers, from the
// token query parameter.
func (h *Handler) userFromRequest(c *gin.Context) (*CurrentUser, error) {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return h.parseToken(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if token := c.Query("token"); token != "" {
		return h.parseToken(token)
	}
	return nil, errors.New("no token")
}

func currentUser(c *gin.Context) *CurrentUser {
	user, _ := c.Get(currentUserKey)
	cu, _ := user.(*CurrentUser)
	return cu
}
