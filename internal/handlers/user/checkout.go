package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vypar_back_end/internal/database"
	"vypar_back_end/internal/middleware"
	"vypar_back_end/internal/orders"
)

// Checkout transforme la liste d'articles soumise en commande.
// Toute la logique transactionnelle (verrous, réservation, atomicité)
// vit dans le package orders, ici on ne fait que border la requête.
func Checkout(c *gin.Context) {
	customerID := middleware.UserID(c)

	var input struct {
		AddressID int64              `json:"address_id"`
		Items     []orders.LineInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.AddressID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse de livraison requise"})
		return
	}
	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := orders.NewStore(database.Pool)
	orderID, err := store.Checkout(ctx, customerID, input.AddressID, input.Items)
	if err != nil {
		status := checkoutStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// Seuls les produits effectivement commandés quittent le panier,
	// le reste du brouillon du client n'est pas touché
	productIDs := make([]int64, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	_, _ = database.Pool.Exec(ctx,
		`DELETE FROM cart_items ci USING carts ct
		 WHERE ci.cart_id = ct.id AND ct.customer_id = $1 AND ci.product_id = ANY($2)`,
		customerID, productIDs)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Commande passée avec succès",
		"order_id": orderID,
	})
}

// checkoutStatus mappe les erreurs du cœur de commande vers un statut HTTP
func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, orders.ErrAddressNotFound):
		return http.StatusNotFound
	case errors.Is(err, orders.ErrEmptyItems),
		errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, orders.ErrInsufficientStock):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
