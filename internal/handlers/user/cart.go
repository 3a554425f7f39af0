package user

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vypar_back_end/internal/database"
	"vypar_back_end/internal/middleware"
	"vypar_back_end/internal/models"
)

// ================== PANIER ==================
// Le panier est un brouillon d'avant-checkout : le prix y est figé à l'ajout
// (price_at_time) à titre indicatif. Le checkout ne lui fait pas confiance et
// recalcule tout depuis le catalogue courant.

func getOrCreateCart(ctx context.Context, customerID int64) (int64, error) {
	var cartID int64
	err := database.Pool.QueryRow(ctx,
		`INSERT INTO carts (customer_id) VALUES ($1)
		 ON CONFLICT (customer_id) DO UPDATE SET updated_at = now()
		 RETURNING id`, customerID).Scan(&cartID)
	return cartID, err
}

func GetCart(c *gin.Context) {
	customerID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cartID, err := getOrCreateCart(ctx, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération panier"})
		return
	}

	rows, err := database.Pool.Query(ctx,
		`SELECT ci.id, ci.cart_id, ci.product_id, p.title, ci.quantity, ci.price_at_time::text
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = $1 ORDER BY ci.id`, cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération panier"})
		return
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var it models.CartItem
		var price string
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Title, &it.Quantity, &price); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
			return
		}
		it.PriceAtTime, err = decimal.NewFromString(price)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
			return
		}
		items = append(items, it)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func AddToCart(c *gin.Context) {
	customerID := middleware.UserID(c)

	var input struct {
		ProductID int64 `json:"product_id" binding:"required"`
		Quantity  int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var price string
	var stock int
	err := database.Pool.QueryRow(ctx,
		`SELECT price::text, stock_quantity FROM products WHERE id = $1 AND is_active`,
		input.ProductID).Scan(&price, &stock)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if stock < input.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock insuffisant"})
		return
	}

	cartID, err := getOrCreateCart(ctx, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur panier"})
		return
	}

	// Si l'article existe déjà, on cumule les quantités (prix d'origine conservé)
	_, err = database.Pool.Exec(ctx,
		`INSERT INTO cart_items (cart_id, product_id, quantity, price_at_time)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (cart_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, input.ProductID, input.Quantity, price)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout au panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ajouté au panier"})
}

func UpdateCartItem(c *gin.Context) {
	customerID := middleware.UserID(c)

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Quantité nulle ou négative = suppression
	if input.Quantity <= 0 {
		tag, err := database.Pool.Exec(ctx,
			`DELETE FROM cart_items ci
			 USING carts ct
			 WHERE ci.id = $1 AND ci.cart_id = ct.id AND ct.customer_id = $2`,
			itemID, customerID)
		if err != nil || tag.RowsAffected() == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Article retiré"})
		return
	}

	tag, err := database.Pool.Exec(ctx,
		`UPDATE cart_items ci
		 SET quantity = $3
		 FROM carts ct
		 WHERE ci.id = $1 AND ci.cart_id = ct.id AND ct.customer_id = $2`,
		itemID, customerID, input.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quantité mise à jour"})
}

func DeleteCartItem(c *gin.Context) {
	customerID := middleware.UserID(c)

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID article invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := database.Pool.Exec(ctx,
		`DELETE FROM cart_items ci
		 USING carts ct
		 WHERE ci.id = $1 AND ci.cart_id = ct.id AND ct.customer_id = $2`,
		itemID, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article supprimé"})
}
