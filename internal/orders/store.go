package orders

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store regroupe toutes les opérations de commande sur PostgreSQL.
// Tout l'état partagé vit en base ; aucune mémoire n'est partagée entre requêtes.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}
