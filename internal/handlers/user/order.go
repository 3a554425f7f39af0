package user

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

// GetMyOrders retourne les commandes du client connecté, articles inclus
func GetMyOrders(c *gin.Context) {
	customerID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := orders.NewStore(database.Pool)
	list, err := store.OrdersByCustomer(ctx, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// CancelOrderItem annule un article tant qu'il n'est pas expédié.
// Le stock est rendu au produit dans la même unité atomique.
func CancelOrderItem(c *gin.Context) {
	customerID := middleware.UserID(c)

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := orders.NewStore(database.Pool)
	err = store.CancelItem(ctx, customerID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, orders.ErrAlreadyShipped),
			errors.Is(err, orders.ErrAlreadyCancelled):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur annulation"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article annulé avec succès"})
}
