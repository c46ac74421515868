package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

const (
	ContextActorID  = "actorID"
	ContextTenantID = "tenantID"
	ContextRole     = "role"
)

// Papéis aceitos no token
const (
	RoleTenant = "tenant"
	RoleAdmin  = "admin"
)

const TokenTTL = 24 * time.Hour

// IssueToken assina o token de sessão. tenantID é 0 para o admin da plataforma.
func IssueToken(secret string, actorID, tenantID uint, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      actorID,
		"tenantId": tenantID,
		"role":     role,
		"exp":      now.Add(TokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid_authorization_header")
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid_token_claims")
			return
		}

		actorID, ok1 := claims["sub"].(float64)
		tenantID, ok2 := claims["tenantId"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 || (role != RoleTenant && role != RoleAdmin) {
			abortUnauthorized(c, "invalid_token_payload")
			return
		}

		c.Set(ContextActorID, uint(actorID))
		c.Set(ContextTenantID, uint(tenantID))
		c.Set(ContextRole, role)

		c.Next()
	}
}

// RequireRole barra tokens válidos de outro papel.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, httperr.HTTPError{
				Code:    "forbidden",
				Message: "Acesso negado.",
			})
			return
		}
		c.Next()
	}
}

// TenantID e ActorID só valem depois do AuthMiddleware.
func TenantID(c *gin.Context) uint {
	return c.GetUint(ContextTenantID)
}

func ActorID(c *gin.Context) *uint {
	id := c.GetUint(ContextActorID)
	return &id
}

func abortUnauthorized(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
		Code:    code,
		Message: "Não autorizado.",
	})
}
