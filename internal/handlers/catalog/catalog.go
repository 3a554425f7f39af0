package catalog

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vypar_back_end/internal/cache"
	"vypar_back_end/internal/database"
	"vypar_back_end/internal/models"
)

const DefaultPageSize = 10

// ListProducts sert le catalogue public paginé : produits actifs, en stock,
// de vendeurs vérifiés. Les lectures hors checkout sont sans verrou et
// peuvent voir un stock légèrement périmé, le checkout revalide tout.
func ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if pageSize < 1 || pageSize > 100 {
		pageSize = DefaultPageSize
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Cache Redis d'abord
	if payload, ok := cache.GetProductPage(ctx, page, pageSize); ok {
		c.Data(http.StatusOK, "application/json", payload)
		return
	}

	var total int
	err := database.Pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM products p
		 JOIN seller_profiles sp ON sp.user_id = p.seller_id
		 WHERE p.is_active AND p.stock_quantity > 0 AND sp.is_verified`).Scan(&total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération catalogue"})
		return
	}

	rows, err := database.Pool.Query(ctx,
		`SELECT p.id, p.seller_id, p.category_id, p.title, p.description, p.price::text,
		        p.stock_quantity, p.brand, p.is_active, p.created_at
		 FROM products p
		 JOIN seller_profiles sp ON sp.user_id = p.seller_id
		 WHERE p.is_active AND p.stock_quantity > 0 AND sp.is_verified
		 ORDER BY p.created_at DESC
		 LIMIT $1 OFFSET $2`, pageSize, (page-1)*pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération catalogue"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		var price string
		if err := rows.Scan(&p.ID, &p.SellerID, &p.CategoryID, &p.Title, &p.Description,
			&price, &p.StockQuantity, &p.Brand, &p.IsActive, &p.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage catalogue"})
			return
		}
		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage catalogue"})
			return
		}
		products = append(products, p)
	}

	payload := gin.H{
		"count":     total,
		"page":      page,
		"page_size": pageSize,
		"results":   products,
	}
	cache.SetProductPage(ctx, page, pageSize, payload)

	c.JSON(http.StatusOK, payload)
}

// GetProduct retourne la fiche d'un produit actif
func GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var p models.Product
	var price string
	err = database.Pool.QueryRow(ctx,
		`SELECT id, seller_id, category_id, title, description, price::text,
		        stock_quantity, brand, is_active, created_at
		 FROM products WHERE id = $1 AND is_active`, productID).
		Scan(&p.ID, &p.SellerID, &p.CategoryID, &p.Title, &p.Description,
			&price, &p.StockQuantity, &p.Brand, &p.IsActive, &p.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	p.Price, err = decimal.NewFromString(price)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage produit"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListCategories retourne les catégories actives
func ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := database.Pool.Query(ctx,
		`SELECT id, name, parent_id, is_active FROM categories WHERE is_active ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération catégories"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.ParentID, &cat.IsActive); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage catégories"})
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, categories)
}
