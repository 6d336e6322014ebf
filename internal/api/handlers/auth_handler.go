package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kestrelsec/warden/internal/gate"
)

const tokenTTL = time.Hour

// AuthHandler issues session tokens for admin access. Credential checking
// is delegated to the gate's authenticator; this handler only translates a
// pass into a signed JWT.
type AuthHandler struct {
	gate   *gate.Gate
	secret string
}

// NewAuthHandler creates an AuthHandler signing tokens with secret.
func NewAuthHandler(g *gate.Gate, secret string) *AuthHandler {
	return &AuthHandler{gate: g, secret: secret}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates credentials and returns a bearer token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if !h.gate.Authenticate(gate.Credentials{Username: req.Username, Password: req.Password}) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": req.Username,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(h.secret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed, "expires_in": int(tokenTTL.Seconds())})
}
