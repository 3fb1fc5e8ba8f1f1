package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kiwari-pos/dinein/internal/database"
	"github.com/shopspring/decimal"
)

// Catalog resolves the name and price of a product (and optional variant)
// at the moment it is ordered. Orders keep the snapshot, not a reference.
type Catalog interface {
	Snapshot(ctx context.Context, restaurantID, productID, variantID uuid.UUID) (ItemSnapshot, error)
}

// ItemSnapshot is a priced line as of ordering time. VariantID is uuid.Nil
// when no variant was chosen.
type ItemSnapshot struct {
	ProductID    uuid.UUID
	ProductName  string
	VariantID    uuid.UUID
	VariantTitle string
	UnitPrice    decimal.Decimal
}

// CatalogStore defines the DB methods needed for snapshots.
// Satisfied by *database.Queries.
type CatalogStore interface {
	GetProductSnapshot(ctx context.Context, arg database.GetProductSnapshotParams) (database.GetProductSnapshotRow, error)
	GetVariantSnapshot(ctx context.Context, id uuid.UUID) (database.GetVariantSnapshotRow, error)
}

// StoreCatalog reads snapshots from the products tables.
type StoreCatalog struct {
	store CatalogStore
}

func NewStoreCatalog(store CatalogStore) *StoreCatalog {
	return &StoreCatalog{store: store}
}

// Snapshot prices the line at the variant price when a variant is given,
// otherwise at the product price.
func (c *StoreCatalog) Snapshot(ctx context.Context, restaurantID, productID, variantID uuid.UUID) (ItemSnapshot, error) {
	product, err := c.store.GetProductSnapshot(ctx, database.GetProductSnapshotParams{
		ID:           productID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemSnapshot{}, ErrProductNotFound
		}
		return ItemSnapshot{}, storeErr("get product", err)
	}

	snap := ItemSnapshot{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   numericToDecimal(product.Price),
	}
	if variantID == uuid.Nil {
		return snap, nil
	}

	variant, err := c.store.GetVariantSnapshot(ctx, variantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemSnapshot{}, ErrVariantNotFound
		}
		return ItemSnapshot{}, storeErr("get variant", err)
	}
	if variant.ProductID != productID {
		return ItemSnapshot{}, ErrVariantMismatch
	}
	snap.VariantID = variant.ID
	snap.VariantTitle = variant.Title
	snap.UnitPrice = numericToDecimal(variant.Price)
	return snap, nil
}
