package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"vypar_back_end/internal/database"
)

func setupTestDB(t *testing.T) *Store {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.MigrateDSN(dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	})

	return NewStore(pool)
}

type fixtures struct {
	customerID int64
	sellerID   int64
	addressID  int64
}

func seed(t *testing.T, s *Store) fixtures {
	ctx := context.Background()
	var f fixtures

	err := s.DB.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ('client@test.fr', 'x', 'CUSTOMER') RETURNING id`).
		Scan(&f.customerID)
	require.NoError(t, err)

	err = s.DB.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ('vendeur@test.fr', 'x', 'SELLER') RETURNING id`).
		Scan(&f.sellerID)
	require.NoError(t, err)

	_, err = s.DB.Exec(ctx,
		`INSERT INTO seller_profiles (user_id, store_name, is_verified) VALUES ($1, 'Boutique Test', TRUE)`,
		f.sellerID)
	require.NoError(t, err)

	err = s.DB.QueryRow(ctx,
		`INSERT INTO addresses (customer_id, full_name, phone, address_line, city, state, pincode)
		 VALUES ($1, 'Client Test', '0600000000', '1 rue du Marché', 'Pune', 'MH', '411001') RETURNING id`,
		f.customerID).Scan(&f.addressID)
	require.NoError(t, err)

	return f
}

func seedProduct(t *testing.T, s *Store, sellerID int64, price string, stock int) int64 {
	var id int64
	err := s.DB.QueryRow(context.Background(),
		`INSERT INTO products (seller_id, title, price, stock_quantity)
		 VALUES ($1, 'produit', $2, $3) RETURNING id`,
		sellerID, price, stock).Scan(&id)
	require.NoError(t, err)
	return id
}

func stockOf(t *testing.T, s *Store, productID int64) int {
	var stock int
	err := s.DB.QueryRow(context.Background(),
		`SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock)
	require.NoError(t, err)
	return stock
}

func countRows(t *testing.T, s *Store, table string) int {
	var n int
	err := s.DB.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n)
	require.NoError(t, err)
	return n
}

// ---------- Checkout ----------

func TestCheckout_Success(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "100.00", 5)

	orderID, err := s.Checkout(ctx, f.customerID, f.addressID,
		[]LineInput{{ProductID: productID, Quantity: 3}})
	require.NoError(t, err)
	require.NotZero(t, orderID)

	// stock décrémenté exactement de la quantité réservée
	assert.Equal(t, 2, stockOf(t, s, productID))

	var total string
	err = s.DB.QueryRow(ctx, `SELECT total_amount::text FROM orders WHERE id = $1`, orderID).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, "300.00", total)

	// article figé : prix unitaire, vendeur, statut initial
	var price, status string
	var sellerID int64
	err = s.DB.QueryRow(ctx,
		`SELECT price::text, status, seller_id FROM order_items WHERE order_id = $1`, orderID).
		Scan(&price, &status, &sellerID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", price)
	assert.Equal(t, "PLACED", status)
	assert.Equal(t, f.sellerID, sellerID)
}

func TestCheckout_PriceSnapshotSurvivesPriceChange(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "50.00", 10)

	orderID, err := s.Checkout(ctx, f.customerID, f.addressID,
		[]LineInput{{ProductID: productID, Quantity: 1}})
	require.NoError(t, err)

	_, err = s.DB.Exec(ctx, `UPDATE products SET price = 999.99 WHERE id = $1`, productID)
	require.NoError(t, err)

	var price string
	err = s.DB.QueryRow(ctx,
		`SELECT price::text FROM order_items WHERE order_id = $1`, orderID).Scan(&price)
	require.NoError(t, err)
	assert.Equal(t, "50.00", price)
}

func TestCheckout_AtomicOnPartialFailure(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productA := seedProduct(t, s, f.sellerID, "10.00", 50)
	productB := seedProduct(t, s, f.sellerID, "10.00", 3)

	_, err := s.Checkout(ctx, f.customerID, f.addressID, []LineInput{
		{ProductID: productA, Quantity: 2},
		{ProductID: productB, Quantity: 1000},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// tout ou rien : aucune commande, aucun article, aucun stock touché,
	// y compris pour le produit A qui passait individuellement
	assert.Equal(t, 0, countRows(t, s, "orders"))
	assert.Equal(t, 0, countRows(t, s, "order_items"))
	assert.Equal(t, 50, stockOf(t, s, productA))
	assert.Equal(t, 3, stockOf(t, s, productB))
}

func TestCheckout_ProductNotFound(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)

	_, err := s.Checkout(context.Background(), f.customerID, f.addressID,
		[]LineInput{{ProductID: 424242, Quantity: 1}})
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 0, countRows(t, s, "orders"))
}

func TestCheckout_AddressMustBelongToCustomer(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "10.00", 5)

	var otherID int64
	err := s.DB.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ('autre@test.fr', 'x', 'CUSTOMER') RETURNING id`).
		Scan(&otherID)
	require.NoError(t, err)

	// l'adresse de f.customerID ne doit pas servir à un autre client
	_, err = s.Checkout(ctx, otherID, f.addressID,
		[]LineInput{{ProductID: productID, Quantity: 1}})
	require.ErrorIs(t, err, ErrAddressNotFound)
	assert.Equal(t, 5, stockOf(t, s, productID))
}

func TestCheckout_EmptyItems(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)

	_, err := s.Checkout(context.Background(), f.customerID, f.addressID, nil)
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestCheckout_ConcurrentSerializedByRowLock(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	// stock=5, deux checkouts concurrents de 3 : un seul doit passer
	productID := seedProduct(t, s, f.sellerID, "100.00", 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Checkout(ctx, f.customerID, f.addressID,
				[]LineInput{{ProductID: productID, Quantity: 3}})
		}(i)
	}
	wg.Wait()

	succeeded, failed := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	// le stock décrémenté égale exactement la quantité des checkouts réussis
	assert.Equal(t, 2, stockOf(t, s, productID))
	assert.Equal(t, 1, countRows(t, s, "orders"))
}

func TestCheckout_ConcurrentExhaustsStockExactly(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	// 10 checkouts concurrents de 1 sur un stock de 4
	productID := seedProduct(t, s, f.sellerID, "5.00", 4)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Checkout(ctx, f.customerID, f.addressID,
				[]LineInput{{ProductID: productID, Quantity: 1}})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	assert.Equal(t, 4, succeeded)
	assert.Equal(t, 0, stockOf(t, s, productID))
}

// ---------- Annulation ----------

func placeOrder(t *testing.T, s *Store, f fixtures, productID int64, qty int) (orderID, itemID int64) {
	orderID, err := s.Checkout(context.Background(), f.customerID, f.addressID,
		[]LineInput{{ProductID: productID, Quantity: qty}})
	require.NoError(t, err)

	err = s.DB.QueryRow(context.Background(),
		`SELECT id FROM order_items WHERE order_id = $1`, orderID).Scan(&itemID)
	require.NoError(t, err)
	return orderID, itemID
}

func TestCancelItem_RestoresStockOnce(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "20.00", 5)
	_, itemID := placeOrder(t, s, f, productID, 3)
	require.Equal(t, 2, stockOf(t, s, productID))

	require.NoError(t, s.CancelItem(ctx, f.customerID, itemID))
	assert.Equal(t, 5, stockOf(t, s, productID))

	var status string
	err := s.DB.QueryRow(ctx, `SELECT status FROM order_items WHERE id = $1`, itemID).Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", status)

	// une deuxième annulation ne doit jamais re-créditer le stock
	err = s.CancelItem(ctx, f.customerID, itemID)
	require.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 5, stockOf(t, s, productID))
}

func TestCancelItem_RejectedOnceShipped(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "20.00", 5)
	_, itemID := placeOrder(t, s, f, productID, 2)

	require.NoError(t, s.UpdateItemStatus(ctx, f.sellerID, itemID, StatusShipped))

	err := s.CancelItem(ctx, f.customerID, itemID)
	require.ErrorIs(t, err, ErrAlreadyShipped)
	assert.Equal(t, 3, stockOf(t, s, productID))
}

func TestCancelItem_OwnershipRequired(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "20.00", 5)
	_, itemID := placeOrder(t, s, f, productID, 1)

	var otherID int64
	err := s.DB.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ('intrus@test.fr', 'x', 'CUSTOMER') RETURNING id`).
		Scan(&otherID)
	require.NoError(t, err)

	err = s.CancelItem(ctx, otherID, itemID)
	require.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, 4, stockOf(t, s, productID))
}

func TestCancelItem_ConcurrentDoubleCancel(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "20.00", 10)
	_, itemID := placeOrder(t, s, f, productID, 4)
	require.Equal(t, 6, stockOf(t, s, productID))

	// deux annulations concurrentes : le verrou de ligne sérialise,
	// une seule libération de stock
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CancelItem(ctx, f.customerID, itemID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrAlreadyCancelled)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 10, stockOf(t, s, productID))
}

// ---------- Statuts vendeur ----------

func TestUpdateItemStatus_ForwardTransitions(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "20.00", 5)
	_, itemID := placeOrder(t, s, f, productID, 1)

	require.NoError(t, s.UpdateItemStatus(ctx, f.sellerID, itemID, StatusShipped))
	require.NoError(t, s.UpdateItemStatus(ctx, f.sellerID, itemID, StatusDelivered))

	// plus aucun retour en arrière ni ré-expédition
	err := s.UpdateItemStatus(ctx, f.sellerID, itemID, StatusShipped)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateItemStatus_NoSkipping(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "20.00", 5)
	_, itemID := placeOrder(t, s, f, productID, 1)

	// PLACED → DELIVERED interdit
	err := s.UpdateItemStatus(ctx, f.sellerID, itemID, StatusDelivered)
	require.ErrorIs(t, err, ErrInvalidTransition)

	// le vendeur ne peut pas annuler, ça appartient au client
	err = s.UpdateItemStatus(ctx, f.sellerID, itemID, StatusCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateItemStatus_SellerOwnershipRequired(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "20.00", 5)
	_, itemID := placeOrder(t, s, f, productID, 1)

	var otherSeller int64
	err := s.DB.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ('concurrent@test.fr', 'x', 'SELLER') RETURNING id`).
		Scan(&otherSeller)
	require.NoError(t, err)

	err = s.UpdateItemStatus(ctx, otherSeller, itemID, StatusShipped)
	require.ErrorIs(t, err, ErrItemNotFound)
}

// ---------- Lectures ----------

func TestOrdersByCustomer(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "15.50", 20)
	orderID, _ := placeOrder(t, s, f, productID, 2)

	list, err := s.OrdersByCustomer(ctx, f.customerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, orderID, list[0].ID)
	assert.Equal(t, "31.00", list[0].TotalAmount.StringFixed(2))
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, "Boutique Test", list[0].Items[0].StoreName)
}

func TestItemsBySeller(t *testing.T) {
	s := setupTestDB(t)
	f := seed(t, s)
	ctx := context.Background()

	productID := seedProduct(t, s, f.sellerID, "15.50", 20)
	placeOrder(t, s, f, productID, 2)

	items, err := s.ItemsBySeller(ctx, f.sellerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "PLACED", items[0].Status)
}
