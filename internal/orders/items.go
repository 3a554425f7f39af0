package orders

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// CancelItem annule un article PLACED du client et rend la quantité au stock,
// le tout dans une transaction avec verrou de ligne sur l'article : deux
// annulations concurrentes du même article ne peuvent pas doubler la
// libération de stock.
func (s *Store) CancelItem(ctx context.Context, customerID, itemID int64) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		productID int64
		quantity  int
		status    ItemStatus
	)
	err = tx.QueryRow(ctx,
		`SELECT oi.product_id, oi.quantity, oi.status
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE oi.id = $1 AND o.customer_id = $2
		 FOR UPDATE OF oi`,
		itemID, customerID).Scan(&productID, &quantity, &status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrItemNotFound
		}
		return err
	}

	switch status {
	case StatusShipped, StatusDelivered:
		return ErrAlreadyShipped
	case StatusCancelled:
		return ErrAlreadyCancelled
	}

	if err := Release(ctx, tx, productID, quantity); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE order_items SET status = 'CANCELLED' WHERE id = $1`, itemID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateItemStatus fait avancer un article par son vendeur.
// Seules les transitions monotones PLACED → SHIPPED → DELIVERED sont
// acceptées ; l'annulation n'appartient qu'au client.
func (s *Store) UpdateItemStatus(ctx context.Context, sellerID, itemID int64, to ItemStatus) error {
	if to != StatusShipped && to != StatusDelivered {
		return ErrInvalidTransition
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from ItemStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM order_items WHERE id = $1 AND seller_id = $2 FOR UPDATE`,
		itemID, sellerID).Scan(&from)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrItemNotFound
		}
		return err
	}

	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}

	_, err = tx.Exec(ctx,
		`UPDATE order_items SET status = $2 WHERE id = $1`, itemID, to)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
