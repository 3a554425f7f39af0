package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                int64           `json:"id"`
	CustomerID        int64           `json:"customer_id"`
	OrderStatus       string          `json:"order_status"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ShippingAddressID int64           `json:"shipping_address_id"`
	CreatedAt         time.Time       `json:"created_at"`
	Items             []OrderItem     `json:"items,omitempty"`
}

// OrderItem fige le vendeur et le prix unitaire au moment du checkout.
// Les changements de prix produit ultérieurs ne touchent jamais une commande.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	SellerID  int64           `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`

	// Champs enrichis pour l'affichage
	ProductTitle string `json:"product_title,omitempty"`
	StoreName    string `json:"store_name,omitempty"`
}
