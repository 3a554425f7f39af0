package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
	IsActive bool   `json:"is_active"`
}

// Le stock d'un Product ne doit être mutable que par le ledger d'inventaire
// (réservation/libération) ou par une modification du vendeur propriétaire.
type Product struct {
	ID            int64           `json:"id"`
	SellerID      int64           `json:"seller_id"`
	CategoryID    *int64          `json:"category_id,omitempty"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Brand         string          `json:"brand"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}
