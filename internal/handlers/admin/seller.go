package admin

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vypar_back_end/internal/database"
)

// ListSellers retourne tous les profils vendeurs avec leur état de vérification
func ListSellers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := database.Pool.Query(ctx,
		`SELECT sp.user_id, sp.store_name, u.email, sp.is_verified
		 FROM seller_profiles sp
		 JOIN users u ON u.id = sp.user_id
		 ORDER BY sp.created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération vendeurs"})
		return
	}
	defer rows.Close()

	type sellerRow struct {
		ID         int64  `json:"id"`
		StoreName  string `json:"store_name"`
		Email      string `json:"email"`
		IsVerified bool   `json:"is_verified"`
	}

	sellers := []sellerRow{}
	for rows.Next() {
		var s sellerRow
		if err := rows.Scan(&s.ID, &s.StoreName, &s.Email, &s.IsVerified); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage vendeurs"})
			return
		}
		sellers = append(sellers, s)
	}

	c.JSON(http.StatusOK, sellers)
}

// VerifySeller marque un vendeur comme vérifié : il peut dès lors publier
func VerifySeller(c *gin.Context) {
	sellerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID vendeur invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tag, err := database.Pool.Exec(ctx,
		`UPDATE seller_profiles SET is_verified = TRUE, verified_at = now(), updated_at = now()
		 WHERE user_id = $1`, sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification vendeur"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendeur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vendeur vérifié avec succès"})
}
