package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vypar_back_end/internal/database"
	"vypar_back_end/internal/orders"
)

// ListOrders retourne toutes les commandes de la plateforme
func ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := orders.NewStore(database.Pool)
	list, err := store.AllOrders(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, list)
}
