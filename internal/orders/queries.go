package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"vypar_back_end/internal/models"
)

// OrdersByCustomer retourne les commandes du client, articles inclus,
// de la plus récente à la plus ancienne.
func (s *Store) OrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT id, customer_id, order_status, total_amount::text, shipping_address_id, created_at
		 FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Order
	index := make(map[int64]int)
	for rows.Next() {
		var o models.Order
		var total string
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderStatus, &total, &o.ShippingAddressID, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.TotalAmount, err = decimal.NewFromString(total)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	orderIDs := make([]int64, 0, len(out))
	for id := range index {
		orderIDs = append(orderIDs, id)
	}

	itemRows, err := s.DB.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, oi.seller_id, oi.quantity,
		        oi.price::text, oi.status, p.title, COALESCE(sp.store_name, '')
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 LEFT JOIN seller_profiles sp ON sp.user_id = oi.seller_id
		 WHERE oi.order_id = ANY($1)
		 ORDER BY oi.id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanItem(itemRows.Scan)
		if err != nil {
			return nil, err
		}
		i := index[item.OrderID]
		out[i].Items = append(out[i].Items, item)
	}
	return out, itemRows.Err()
}

// ItemsBySeller retourne les articles de commande appartenant au vendeur
func (s *Store) ItemsBySeller(ctx context.Context, sellerID int64) ([]models.OrderItem, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, oi.seller_id, oi.quantity,
		        oi.price::text, oi.status, p.title, COALESCE(sp.store_name, '')
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 LEFT JOIN seller_profiles sp ON sp.user_id = oi.seller_id
		 WHERE oi.seller_id = $1
		 ORDER BY oi.id DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.OrderItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// AllOrders retourne toutes les commandes (vue admin)
func (s *Store) AllOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT id, customer_id, order_status, total_amount::text, shipping_address_id, created_at
		 FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var o models.Order
		var total string
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderStatus, &total, &o.ShippingAddressID, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.TotalAmount, err = decimal.NewFromString(total)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanItem(scan func(dest ...any) error) (models.OrderItem, error) {
	var item models.OrderItem
	var price string
	err := scan(&item.ID, &item.OrderID, &item.ProductID, &item.SellerID,
		&item.Quantity, &price, &item.Status, &item.ProductTitle, &item.StoreName)
	if err != nil {
		return item, err
	}
	item.Price, err = decimal.NewFromString(price)
	return item, err
}
