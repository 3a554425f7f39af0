package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"vypar_back_end/internal/database"
	"vypar_back_end/internal/middleware"
	"vypar_back_end/internal/models"
	"vypar_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

func Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	role := models.Role(input.Role)
	if role == models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Inscription admin non autorisée"})
		return
	}
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// email déjà pris ?
	var existing int64
	err := database.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`, input.Email).Scan(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	} else if err != pgx.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur base de données"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	var userID int64
	err = database.Pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, full_name, phone, role)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		input.Email, hash, input.FullName, input.Phone, role).Scan(&userID)
	if err != nil {
		// Deux inscriptions simultanées sur le même email : la contrainte
		// unique tranche, le perdant reçoit le même 409 que le pré-check
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
			return
		}
		log.Println("❌ Erreur création utilisateur:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	// Un vendeur démarre avec un profil boutique vide, non vérifié
	if role == models.RoleSeller {
		_, err = database.Pool.Exec(ctx,
			`INSERT INTO seller_profiles (user_id) VALUES ($1)`, userID)
		if err != nil {
			log.Println("❌ Erreur création profil vendeur:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création profil vendeur"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Inscription réussie"})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := database.Pool.QueryRow(ctx,
		`SELECT id, email, password_hash, full_name, phone, role, is_active
		 FROM users WHERE email = $1`, input.Email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Phone, &user.Role, &user.IsActive)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Compte désactivé"})
		return
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"role":  user.Role,
	})
}

// ================== PROFIL ==================

func GetProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := database.Pool.QueryRow(ctx,
		`SELECT id, email, full_name, phone, role FROM users WHERE id = $1`, userID).
		Scan(&user.ID, &user.Email, &user.FullName, &user.Phone, &user.Role)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":     user.Email,
		"full_name": user.FullName,
		"phone":     user.Phone,
		"role":      user.Role,
	})
}

func UpdateProfile(c *gin.Context) {
	userID := middleware.UserID(c)

	var input struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := database.Pool.Exec(ctx,
		`UPDATE users
		 SET full_name = COALESCE($2, full_name),
		     phone     = COALESCE($3, phone),
		     updated_at = now()
		 WHERE id = $1`,
		userID, input.FullName, input.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profil mis à jour avec succès"})
}
