package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vypar_back_end/internal/models"
)

// RequireCustomer vérifie que l'utilisateur a le rôle CUSTOMER
func RequireCustomer(c *gin.Context) {
	if UserRole(c) != models.RoleCustomer {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux clients"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireSeller vérifie que l'utilisateur a le rôle SELLER
func RequireSeller(c *gin.Context) {
	if UserRole(c) != models.RoleSeller {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux vendeurs"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireAdmin vérifie que l'utilisateur a le rôle ADMIN
func RequireAdmin(c *gin.Context) {
	if UserRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
