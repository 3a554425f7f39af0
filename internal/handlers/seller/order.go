package seller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vypar_back_end/internal/database"
	"vypar_back_end/internal/middleware"
	"vypar_back_end/internal/orders"
)

// ListOrderItems retourne les articles de commande du vendeur connecté
func ListOrderItems(c *gin.Context) {
	sellerID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := orders.NewStore(database.Pool)
	items, err := store.ItemsBySeller(ctx, sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateOrderItemStatus fait avancer un article du vendeur.
// Seules les transitions PLACED → SHIPPED → DELIVERED sont acceptées.
func UpdateOrderItemStatus(c *gin.Context) {
	sellerID := middleware.UserID(c)

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	to := orders.ItemStatus(input.Status)
	if !to.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := orders.NewStore(database.Pool)
	err = store.UpdateItemStatus(ctx, sellerID, itemID, to)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, orders.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour"})
}
