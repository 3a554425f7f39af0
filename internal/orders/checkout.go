package orders

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
)

// Checkout exécute la commande comme une seule unité atomique :
// validation d'adresse, résolution du panier soumis, réservation du stock
// sous verrous de ligne, création de la commande et de ses articles.
// Le moindre échec annule tout : aucune commande partielle, aucun
// décrément de stock orphelin.
func (s *Store) Checkout(ctx context.Context, customerID, addressID int64, items []LineInput) (int64, error) {
	if len(items) == 0 {
		return 0, ErrEmptyItems
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// L'adresse de livraison doit appartenir au client
	var addrID int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM addresses WHERE id = $1 AND customer_id = $2`,
		addressID, customerID).Scan(&addrID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrAddressNotFound
		}
		return 0, err
	}

	// Passe consultative : validation et totaux dans l'ordre soumis.
	// Échec rapide et messages précis, mais rien ne fait foi ici.
	products, err := loadProducts(ctx, tx, items)
	if err != nil {
		return 0, err
	}
	snap, err := BuildSnapshot(items, products)
	if err != nil {
		return 0, err
	}

	// Réservation qui fait foi : verrous de ligne pris en ordre croissant
	// d'id produit pour éviter les deadlocks entre checkouts multi-articles.
	// Le stock est relu sous verrou car d'autres transactions ont pu passer
	// entre la passe consultative et l'acquisition du verrou.
	for _, pid := range sortedProductIDs(items) {
		qty := 0
		for _, it := range items {
			if it.ProductID == pid {
				qty += it.Quantity
			}
		}
		if err := Reserve(ctx, tx, pid, qty); err != nil {
			return 0, err
		}
	}

	// Création de la commande avec le total figé par la résolution
	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (customer_id, order_status, total_amount, shipping_address_id)
		 VALUES ($1, 'PLACED', $2, $3) RETURNING id`,
		customerID, snap.Total.StringFixed(2), addrID).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	// Articles : prix unitaire et vendeur figés au moment du checkout
	for _, line := range snap.Lines {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, seller_id, quantity, price, status)
			 VALUES ($1, $2, $3, $4, $5, 'PLACED')`,
			orderID, line.ProductID, line.SellerID, line.Quantity, line.UnitPrice.StringFixed(2))
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return orderID, nil
}

// sortedProductIDs retourne les ids produit dédupliqués, en ordre croissant
func sortedProductIDs(items []LineInput) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
