package seller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vypar_back_end/internal/database"
	"vypar_back_end/internal/middleware"
	"vypar_back_end/internal/models"
)

// ================== PROFIL VENDEUR ==================

func GetProfile(c *gin.Context) {
	sellerID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// get-or-create : un vendeur fraîchement inscrit a toujours un profil
	var p models.SellerProfile
	err := database.Pool.QueryRow(ctx,
		`INSERT INTO seller_profiles (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = seller_profiles.updated_at
		 RETURNING user_id, store_name, gst_number, pan_number, bank_account,
		           is_verified, verified_at, created_at, updated_at`, sellerID).
		Scan(&p.UserID, &p.StoreName, &p.GSTNumber, &p.PANNumber, &p.BankAccount,
			&p.IsVerified, &p.VerifiedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération profil"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func UpdateProfile(c *gin.Context) {
	sellerID := middleware.UserID(c)

	var input struct {
		StoreName   string `json:"store_name" binding:"required"`
		GSTNumber   string `json:"gst_number"`
		PANNumber   string `json:"pan_number"`
		BankAccount string `json:"bank_account"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Un profil vérifié est gelé, seul un admin peut encore y toucher
	var verified bool
	err := database.Pool.QueryRow(ctx,
		`SELECT is_verified FROM seller_profiles WHERE user_id = $1`, sellerID).Scan(&verified)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profil vendeur introuvable"})
		return
	}
	if verified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Profil vérifié : contactez un admin pour toute modification"})
		return
	}

	_, err = database.Pool.Exec(ctx,
		`UPDATE seller_profiles
		 SET store_name = $2, gst_number = $3, pan_number = $4, bank_account = $5, updated_at = now()
		 WHERE user_id = $1`,
		sellerID, input.StoreName, input.GSTNumber, input.PANNumber, input.BankAccount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profil vendeur mis à jour"})
}

// GetStatus expose l'état de vérification de la boutique
func GetStatus(c *gin.Context) {
	sellerID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var storeName string
	var isVerified bool
	err := database.Pool.QueryRow(ctx,
		`SELECT store_name, is_verified FROM seller_profiles WHERE user_id = $1`, sellerID).
		Scan(&storeName, &isVerified)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profil vendeur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store_name":  storeName,
		"is_verified": isVerified,
	})
}
