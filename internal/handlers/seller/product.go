package seller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vypar_back_end/internal/cache"
	"vypar_back_end/internal/database"
	"vypar_back_end/internal/middleware"
	"vypar_back_end/internal/models"
)

// ================== PRODUITS VENDEUR ==================

func ListProducts(c *gin.Context) {
	sellerID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := database.Pool.Query(ctx,
		`SELECT id, seller_id, category_id, title, description, price::text,
		        stock_quantity, brand, is_active, created_at
		 FROM products WHERE seller_id = $1 AND is_active ORDER BY created_at DESC`, sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération produits"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage produits"})
			return
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, products)
}

func CreateProduct(c *gin.Context) {
	sellerID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Seul un vendeur vérifié peut publier
	var verified bool
	err := database.Pool.QueryRow(ctx,
		`SELECT is_verified FROM seller_profiles WHERE user_id = $1`, sellerID).Scan(&verified)
	if err != nil || !verified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vendeur non vérifié"})
		return
	}

	var input struct {
		CategoryID    *int64 `json:"category_id"`
		Title         string `json:"title" binding:"required"`
		Description   string `json:"description"`
		Price         string `json:"price" binding:"required"`
		StockQuantity int    `json:"stock_quantity"`
		Brand         string `json:"brand"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
		return
	}
	if input.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock invalide"})
		return
	}

	var p models.Product
	err = database.Pool.QueryRow(ctx,
		`INSERT INTO products (seller_id, category_id, title, description, price, stock_quantity, brand, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		 RETURNING id, seller_id, category_id, title, description, price::text,
		           stock_quantity, brand, is_active, created_at`,
		sellerID, input.CategoryID, input.Title, input.Description,
		price.StringFixed(2), input.StockQuantity, input.Brand).
		Scan(scanProductDest(&p)...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	cache.InvalidateProductPages(ctx)
	c.JSON(http.StatusCreated, p)
}

func UpdateProduct(c *gin.Context) {
	sellerID := middleware.UserID(c)

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		CategoryID    *int64  `json:"category_id"`
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		Price         *string `json:"price"`
		StockQuantity *int    `json:"stock_quantity"`
		Brand         *string `json:"brand"`
		IsActive      *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	var priceStr *string
	if input.Price != nil {
		price, err := decimal.NewFromString(*input.Price)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
			return
		}
		s := price.StringFixed(2)
		priceStr = &s
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := database.Pool.Exec(ctx,
		`UPDATE products
		 SET category_id   = COALESCE($3, category_id),
		     title          = COALESCE($4, title),
		     description    = COALESCE($5, description),
		     price          = COALESCE($6::numeric, price),
		     stock_quantity = COALESCE($7, stock_quantity),
		     brand          = COALESCE($8, brand),
		     is_active      = COALESCE($9, is_active)
		 WHERE id = $1 AND seller_id = $2`,
		productID, sellerID, input.CategoryID, input.Title, input.Description,
		priceStr, input.StockQuantity, input.Brand, input.IsActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cache.InvalidateProductPages(ctx)
	c.JSON(http.StatusOK, gin.H{"message": "Produit mis à jour"})
}

// DeleteProduct désactive le produit (soft delete : les commandes passées
// continuent de référencer la ligne produit)
func DeleteProduct(c *gin.Context) {
	sellerID := middleware.UserID(c)

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := database.Pool.Exec(ctx,
		`UPDATE products SET is_active = FALSE WHERE id = $1 AND seller_id = $2`,
		productID, sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cache.InvalidateProductPages(ctx)
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// --- helpers de scan ---

func scanProduct(scan func(dest ...any) error) (models.Product, error) {
	var p models.Product
	if err := scan(scanProductDest(&p)...); err != nil {
		return p, err
	}
	return p, nil
}

func scanProductDest(p *models.Product) []any {
	return []any{&p.ID, &p.SellerID, &p.CategoryID, &p.Title, &p.Description,
		&priceScanner{&p.Price}, &p.StockQuantity, &p.Brand, &p.IsActive, &p.CreatedAt}
}

// priceScanner décode un NUMERIC::text en décimal exact
type priceScanner struct {
	d *decimal.Decimal
}

func (ps *priceScanner) Scan(src any) error {
	s, ok := src.(string)
	if !ok {
		if b, ok := src.([]byte); ok {
			s = string(b)
		} else {
			s = "0"
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	*ps.d = d
	return nil
}
