package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"backend_trainerhub/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TrainerIDKey ключ идентификатора тренера в контексте gin
const TrainerIDKey = "trainer_id"

// TrainerClaims утверждения токена тренера
type TrainerClaims struct {
	TrainerID uint `json:"trainer_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT токен тренера
type AuthMiddleware struct {
	secret []byte
	issuer string
}

// NewAuthMiddleware создает новый экземпляр AuthMiddleware
func NewAuthMiddleware(cfg config.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
	}
}

// RequireAuth middleware для проверки аутентификации
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Authorization header is required",
			})
			return
		}

		claims, err := am.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Invalid or expired token: " + err.Error(),
			})
			return
		}

		c.Set(TrainerIDKey, claims.TrainerID)
		c.Next()
	}
}

// ValidateToken проверяет подпись и срок действия токена
func (am *AuthMiddleware) ValidateToken(tokenString string) (*TrainerClaims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if am.issuer != "" {
		options = append(options, jwt.WithIssuer(am.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TrainerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, options...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, errors.New("malformed token")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.New("invalid token signature")
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, errors.New("token expired")
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*TrainerClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TrainerID == 0 {
		return nil, errors.New("trainer_id missing in token")
	}
	return claims, nil
}

// IssueToken выпускает токен тренера, используется сервисными утилитами и тестами
func (am *AuthMiddleware) IssueToken(trainerID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TrainerClaims{
		TrainerID: trainerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    am.issuer,
			Subject:   fmt.Sprintf("%d", trainerID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(am.secret)
}

func extractToken(authHeader string) string {
	switch {
	case strings.HasPrefix(authHeader, "Bearer "):
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	case strings.HasPrefix(authHeader, "Token "):
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Token "))
	}
	return strings.TrimSpace(authHeader)
}

// GetTrainerID возвращает идентификатор тренера из контекста
func GetTrainerID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(TrainerIDKey)
	if !exists {
		return 0, false
	}
	trainerID, ok := value.(uint)
	return trainerID, ok && trainerID != 0
}
