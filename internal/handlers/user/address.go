package user

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vypar_back_end/internal/database"
	"vypar_back_end/internal/middleware"
	"vypar_back_end/internal/models"
)

// ================== ADRESSES ==================

func ListAddresses(c *gin.Context) {
	customerID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := database.Pool.Query(ctx,
		`SELECT id, customer_id, full_name, phone, address_line, city, state, pincode, is_default, created_at
		 FROM addresses WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération adresses"})
		return
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.FullName, &a.Phone, &a.AddressLine,
			&a.City, &a.State, &a.Pincode, &a.IsDefault, &a.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage adresses"})
			return
		}
		addresses = append(addresses, a)
	}

	c.JSON(http.StatusOK, addresses)
}

func CreateAddress(c *gin.Context) {
	customerID := middleware.UserID(c)

	var input struct {
		FullName    string `json:"full_name" binding:"required"`
		Phone       string `json:"phone" binding:"required"`
		AddressLine string `json:"address_line" binding:"required"`
		City        string `json:"city" binding:"required"`
		State       string `json:"state" binding:"required"`
		Pincode     string `json:"pincode" binding:"required"`
		IsDefault   bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Une seule adresse par défaut à la fois
	if input.IsDefault {
		_, _ = database.Pool.Exec(ctx,
			`UPDATE addresses SET is_default = FALSE WHERE customer_id = $1 AND is_default`, customerID)
	}

	var a models.Address
	err := database.Pool.QueryRow(ctx,
		`INSERT INTO addresses (customer_id, full_name, phone, address_line, city, state, pincode, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, customer_id, full_name, phone, address_line, city, state, pincode, is_default, created_at`,
		customerID, input.FullName, input.Phone, input.AddressLine, input.City, input.State, input.Pincode, input.IsDefault).
		Scan(&a.ID, &a.CustomerID, &a.FullName, &a.Phone, &a.AddressLine,
			&a.City, &a.State, &a.Pincode, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création adresse"})
		return
	}

	c.JSON(http.StatusCreated, a)
}

func UpdateAddress(c *gin.Context) {
	customerID := middleware.UserID(c)

	addressID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	var input struct {
		FullName    *string `json:"full_name"`
		Phone       *string `json:"phone"`
		AddressLine *string `json:"address_line"`
		City        *string `json:"city"`
		State       *string `json:"state"`
		Pincode     *string `json:"pincode"`
		IsDefault   *bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if input.IsDefault != nil && *input.IsDefault {
		_, _ = database.Pool.Exec(ctx,
			`UPDATE addresses SET is_default = FALSE WHERE customer_id = $1 AND is_default`, customerID)
	}

	tag, err := database.Pool.Exec(ctx,
		`UPDATE addresses
		 SET full_name    = COALESCE($3, full_name),
		     phone        = COALESCE($4, phone),
		     address_line = COALESCE($5, address_line),
		     city         = COALESCE($6, city),
		     state        = COALESCE($7, state),
		     pincode      = COALESCE($8, pincode),
		     is_default   = COALESCE($9, is_default)
		 WHERE id = $1 AND customer_id = $2`,
		addressID, customerID, input.FullName, input.Phone, input.AddressLine,
		input.City, input.State, input.Pincode, input.IsDefault)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour adresse"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse mise à jour"})
}

func DeleteAddress(c *gin.Context) {
	customerID := middleware.UserID(c)

	addressID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := database.Pool.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND customer_id = $2`, addressID, customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression adresse"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse supprimée"})
}
