package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Handler struct {
	secret []byte
}

func NewHandler(secret []byte) *Handler {
	return &Handler{secret: secret}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// POST /auth/login
//
// Guest login: mints the participant identity the websocket session runs
// under. The identity is a fresh uuid per login, so a reconnecting user is a
// brand-new participant (there is no resume protocol).
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	identity := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":  identity,
		"name": req.Username,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtStr, err := token.SignedString(h.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jwt":      jwtStr,
		"identity": identity,
	})
}
