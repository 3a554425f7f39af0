package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productFixture(id, sellerID int64, price string, stock int) ProductInfo {
	return ProductInfo{
		ID:       id,
		SellerID: sellerID,
		Title:    "produit-test",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
}

func TestBuildSnapshot_ComputesExactTotals(t *testing.T) {
	products := map[int64]ProductInfo{
		1: productFixture(1, 10, "100.00", 5),
		2: productFixture(2, 11, "19.99", 50),
	}

	snap, err := BuildSnapshot([]LineInput{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 2},
	}, products)
	require.NoError(t, err)

	require.Len(t, snap.Lines, 2)
	assert.Equal(t, "300", snap.Lines[0].LineTotal.String())
	assert.Equal(t, "39.98", snap.Lines[1].LineTotal.String())
	assert.Equal(t, "339.98", snap.Total.StringFixed(2))

	// le prix unitaire et le vendeur sont figés sur la ligne
	assert.Equal(t, int64(10), snap.Lines[0].SellerID)
	assert.Equal(t, "100.00", snap.Lines[0].UnitPrice.StringFixed(2))
}

func TestBuildSnapshot_DecimalArithmetic(t *testing.T) {
	// 0.10 * 3 doit donner exactement 0.30, pas d'arithmétique flottante
	products := map[int64]ProductInfo{
		1: productFixture(1, 10, "0.10", 100),
	}

	snap, err := BuildSnapshot([]LineInput{{ProductID: 1, Quantity: 3}}, products)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(decimal.RequireFromString("0.30")),
		"total=%s", snap.Total.String())
}

func TestBuildSnapshot_EmptyItems(t *testing.T) {
	_, err := BuildSnapshot(nil, map[int64]ProductInfo{})
	assert.ErrorIs(t, err, ErrEmptyItems)
}

func TestBuildSnapshot_InvalidQuantity(t *testing.T) {
	products := map[int64]ProductInfo{1: productFixture(1, 10, "5.00", 10)}

	_, err := BuildSnapshot([]LineInput{{ProductID: 1, Quantity: 0}}, products)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = BuildSnapshot([]LineInput{{ProductID: 1, Quantity: -2}}, products)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestBuildSnapshot_ProductNotFound(t *testing.T) {
	products := map[int64]ProductInfo{1: productFixture(1, 10, "5.00", 10)}

	_, err := BuildSnapshot([]LineInput{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}, products)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestBuildSnapshot_InsufficientStock(t *testing.T) {
	products := map[int64]ProductInfo{
		1: productFixture(1, 10, "5.00", 10),
		2: productFixture(2, 10, "5.00", 3),
	}

	_, err := BuildSnapshot([]LineInput{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1000},
	}, products)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestBuildSnapshot_FirstFailureWins(t *testing.T) {
	// les lignes sont traitées dans l'ordre soumis : la première en échec
	// détermine l'erreur, même si une ligne suivante échouerait autrement
	products := map[int64]ProductInfo{
		2: productFixture(2, 10, "5.00", 1),
	}

	_, err := BuildSnapshot([]LineInput{
		{ProductID: 1, Quantity: 1},    // introuvable
		{ProductID: 2, Quantity: 1000}, // stock insuffisant
	}, products)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
