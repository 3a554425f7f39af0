package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vypar_back_end/internal/database"
)

const (
	ProductCacheTTL = 10 * time.Minute
)

func productPageKey(page, pageSize int) string {
	return fmt.Sprintf("products:page:%d:%d", page, pageSize)
}

// GetProductPage récupère une page du catalogue depuis Redis.
// Retourne (nil, false) en cas de miss, la base reste la vérité.
func GetProductPage(ctx context.Context, page, pageSize int) (json.RawMessage, bool) {
	data, err := database.Redis.Get(ctx, productPageKey(page, pageSize)).Result()
	if err != nil || data == "" {
		return nil, false
	}
	return json.RawMessage(data), true
}

// SetProductPage met une page du catalogue en cache
func SetProductPage(ctx context.Context, page, pageSize int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	database.Redis.Set(ctx, productPageKey(page, pageSize), data, ProductCacheTTL)
}

// InvalidateProductPages purge toutes les pages du catalogue en cache.
// Appelé à chaque création/modification/suppression de produit.
func InvalidateProductPages(ctx context.Context) {
	iter := database.Redis.Scan(ctx, 0, "products:page:*", 100).Iterator()
	for iter.Next(ctx) {
		database.Redis.Del(ctx, iter.Val())
	}
}
