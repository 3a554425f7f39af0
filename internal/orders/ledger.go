package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Le ledger d'inventaire : tout mouvement de stock passe par Reserve/Release,
// toujours à l'intérieur de la transaction de l'appelant. Pas de réservation
// "en attente" : un échec après réservation doit annuler la transaction entière.

// Reserve verrouille la ligne produit (FOR UPDATE), revérifie le stock sous
// verrou puis le décrémente. Le check-and-decrement est un seul pas atomique :
// deux checkouts concurrents sur le même produit sont sérialisés ici.
func Reserve(ctx context.Context, tx pgx.Tx, productID int64, qty int) error {
	var stock int
	err := tx.QueryRow(ctx,
		`SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE`,
		productID).Scan(&stock)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w (id=%d)", ErrProductNotFound, productID)
		}
		return err
	}

	if stock < qty {
		return fmt.Errorf("%w (produit %d : demandé %d, disponible %d)",
			ErrInsufficientStock, productID, qty, stock)
	}

	_, err = tx.Exec(ctx,
		`UPDATE products SET stock_quantity = stock_quantity - $2 WHERE id = $1`,
		productID, qty)
	return err
}

// Release rend la quantité au stock, sans condition. L'idempotence est à la
// charge de l'appelant (verrou de ligne sur l'article annulé).
func Release(ctx context.Context, tx pgx.Tx, productID int64, qty int) error {
	_, err := tx.Exec(ctx,
		`UPDATE products SET stock_quantity = stock_quantity + $2 WHERE id = $1`,
		productID, qty)
	return err
}
