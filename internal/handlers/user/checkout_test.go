package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vypar_back_end/internal/database"
)

type checkoutFixtures struct {
	customerID int64
	addressID  int64
	productA   int64
	productB   int64
}

func seedCheckout(t *testing.T) checkoutFixtures {
	ctx := context.Background()
	var f checkoutFixtures

	err := database.Pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ('client@test.fr', 'x', 'CUSTOMER') RETURNING id`).
		Scan(&f.customerID)
	require.NoError(t, err)

	var sellerID int64
	err = database.Pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ('vendeur@test.fr', 'x', 'SELLER') RETURNING id`).
		Scan(&sellerID)
	require.NoError(t, err)
	_, err = database.Pool.Exec(ctx,
		`INSERT INTO seller_profiles (user_id, store_name, is_verified) VALUES ($1, 'Boutique Test', TRUE)`,
		sellerID)
	require.NoError(t, err)

	err = database.Pool.QueryRow(ctx,
		`INSERT INTO addresses (customer_id, full_name, phone, address_line, city, state, pincode)
		 VALUES ($1, 'Client Test', '0600000000', '1 rue du Marché', 'Pune', 'MH', '411001') RETURNING id`,
		f.customerID).Scan(&f.addressID)
	require.NoError(t, err)

	err = database.Pool.QueryRow(ctx,
		`INSERT INTO products (seller_id, title, price, stock_quantity)
		 VALUES ($1, 'produit A', 10.00, 20) RETURNING id`, sellerID).Scan(&f.productA)
	require.NoError(t, err)
	err = database.Pool.QueryRow(ctx,
		`INSERT INTO products (seller_id, title, price, stock_quantity)
		 VALUES ($1, 'produit B', 15.00, 20) RETURNING id`, sellerID).Scan(&f.productB)
	require.NoError(t, err)

	// panier persistant avec les deux produits
	var cartID int64
	err = database.Pool.QueryRow(ctx,
		`INSERT INTO carts (customer_id) VALUES ($1) RETURNING id`, f.customerID).Scan(&cartID)
	require.NoError(t, err)
	_, err = database.Pool.Exec(ctx,
		`INSERT INTO cart_items (cart_id, product_id, quantity, price_at_time)
		 VALUES ($1, $2, 2, 10.00), ($1, $3, 1, 15.00)`, cartID, f.productA, f.productB)
	require.NoError(t, err)

	return f
}

func checkoutRouter(customerID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/checkout", func(c *gin.Context) {
		c.Set("user_id", customerID)
	}, Checkout)
	return r
}

func TestCheckout_RemovesOnlyPurchasedItemsFromCart(t *testing.T) {
	setupHandlerDB(t)
	f := seedCheckout(t)
	r := checkoutRouter(f.customerID)

	// seul le produit A est commandé, le produit B reste en brouillon
	body := `{"address_id":` + strconv.FormatInt(f.addressID, 10) +
		`,"items":[{"product_id":` + strconv.FormatInt(f.productA, 10) + `,"quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	rows, err := database.Pool.Query(context.Background(),
		`SELECT ci.product_id FROM cart_items ci
		 JOIN carts ct ON ct.id = ci.cart_id
		 WHERE ct.customer_id = $1`, f.customerID)
	require.NoError(t, err)
	defer rows.Close()

	var remaining []int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		remaining = append(remaining, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int64{f.productB}, remaining)
}

func TestCheckout_FailureLeavesCartUntouched(t *testing.T) {
	setupHandlerDB(t)
	f := seedCheckout(t)
	r := checkoutRouter(f.customerID)

	body := `{"address_id":` + strconv.FormatInt(f.addressID, 10) +
		`,"items":[{"product_id":` + strconv.FormatInt(f.productA, 10) + `,"quantity":1000}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int
	err := database.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM cart_items ci
		 JOIN carts ct ON ct.id = ci.cart_id
		 WHERE ct.customer_id = $1`, f.customerID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
