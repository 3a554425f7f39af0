package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LineInput est une paire (produit, quantité) telle que soumise au checkout
type LineInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ProductInfo est l'état catalogue d'un produit au moment de la résolution
type ProductInfo struct {
	ID       int64
	SellerID int64
	Title    string
	Price    decimal.Decimal
	Stock    int
}

// SnapshotLine fige prix unitaire et vendeur pour une ligne de commande
type SnapshotLine struct {
	ProductID int64
	SellerID  int64
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Snapshot struct {
	Lines []SnapshotLine
	Total decimal.Decimal
}

// BuildSnapshot valide les lignes soumises contre l'état catalogue et calcule
// les totaux en décimal exact (jamais de flottant). Les lignes sont traitées
// dans l'ordre soumis : la première en échec détermine l'erreur.
//
// C'est une pré-validation consultative : le check de stock qui fait foi est
// celui du ledger, exécuté sous verrou de ligne.
func BuildSnapshot(items []LineInput, products map[int64]ProductInfo) (*Snapshot, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	snap := &Snapshot{
		Lines: make([]SnapshotLine, 0, len(items)),
		Total: decimal.Zero,
	}

	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w (produit %d)", ErrInvalidQuantity, it.ProductID)
		}

		p, ok := products[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w (id=%d)", ErrProductNotFound, it.ProductID)
		}

		if p.Stock < it.Quantity {
			return nil, fmt.Errorf("%w (produit %q : demandé %d, disponible %d)",
				ErrInsufficientStock, p.Title, it.Quantity, p.Stock)
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		snap.Lines = append(snap.Lines, SnapshotLine{
			ProductID: p.ID,
			SellerID:  p.SellerID,
			Title:     p.Title,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
		})
		snap.Total = snap.Total.Add(lineTotal)
	}

	return snap, nil
}

// loadProducts charge l'état catalogue des produits demandés (sans verrou)
func loadProducts(ctx context.Context, tx pgx.Tx, items []LineInput) (map[int64]ProductInfo, error) {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	rows, err := tx.Query(ctx,
		`SELECT id, seller_id, title, price::text, stock_quantity
		 FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]ProductInfo, len(items))
	for rows.Next() {
		var p ProductInfo
		var price string
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Title, &price, &p.Stock); err != nil {
			return nil, err
		}
		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("prix illisible pour produit %d: %w", p.ID, err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}
