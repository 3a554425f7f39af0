package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vypar_back_end/internal/config"
	"vypar_back_end/internal/database"
	"vypar_back_end/internal/routes"
)

func main() {
	config.Load()

	database.ConnectDatabases()
	defer database.Close()

	r := gin.Default()

	// CORS pour le frontend
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{config.Getenv("FRONTEND_URL", "http://localhost:5173")}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Vypar lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Erreur serveur:", err)
	}
}
