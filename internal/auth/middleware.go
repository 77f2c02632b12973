package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/staffeye/internal/database"
	"github.com/staffeye/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

var jwtSecret = []byte("change-me")

// SetSecret overrides the signing secret from configuration. Must be called
// before the server starts issuing tokens.
func SetSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

type Claims struct {
	EmployeeID uint
	Role       models.Role
	jwt.StandardClaims
}

func GenerateToken(e *models.Employee) (string, error) {
	claims := Claims{
		EmployeeID: e.ID,
		Role:       e.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		claims := &Claims{}

		tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		})

		if err != nil || !tkn.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		var employee models.Employee
		if err := database.GetDB().First(&employee, claims.EmployeeID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "employee not found"})
			c.Abort()
			return
		}

		if !employee.Status.IsWorking() {
			c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
			c.Abort()
			return
		}

		c.Set("employee", employee)
		c.Set("employee_id", employee.ID)
		c.Set("employee_name", employee.Name)
		c.Set("role", string(employee.Role))
		c.Next()
	}
}

func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		for _, role := range roles {
			if string(role) == userRole {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		c.Abort()
	}
}
