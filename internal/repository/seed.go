package store

import (
	"context"
	"time"

	"github.com/shoplift/engage/internal/domain"
)

// SeedDemoCatalog loads a small catalog with association edges so the
// recommendation surfaces answer out of the box. Idempotent.
func (s *SQLiteStore) SeedDemoCatalog(ctx context.Context) error {
	now := time.Now()
	products := []domain.Product{
		{ProductID: "p-espresso", Name: "Espresso Maker", Category: "kitchen", Price: 129, Rating: 4.6},
		{ProductID: "p-grinder", Name: "Burr Grinder", Category: "kitchen", Price: 89, Rating: 4.4},
		{ProductID: "p-kettle", Name: "Gooseneck Kettle", Category: "kitchen", Price: 59, Rating: 4.2},
		{ProductID: "p-espresso-pro", Name: "Espresso Maker Pro", Category: "kitchen", Price: 249, Rating: 4.8},
		{ProductID: "p-beans", Name: "Single-Origin Beans", Category: "pantry", Price: 18, Rating: 4.7},
		{ProductID: "p-mug", Name: "Ceramic Mug Set", Category: "tableware", Price: 32, Rating: 4.1},
		{ProductID: "p-scale", Name: "Brew Scale", Category: "kitchen", Price: 45, Rating: 4.3},
	}
	for i := range products {
		products[i].CreatedAt = now
		if err := s.UpsertProduct(ctx, &products[i]); err != nil {
			return err
		}
	}

	associations := []domain.ProductAssociation{
		{ProductID: "p-espresso", AssociatedProductID: "p-grinder", Strength: 80},
		{ProductID: "p-espresso", AssociatedProductID: "p-beans", Strength: 70},
		{ProductID: "p-grinder", AssociatedProductID: "p-beans", Strength: 60},
		{ProductID: "p-kettle", AssociatedProductID: "p-scale", Strength: 50},
		{ProductID: "p-beans", AssociatedProductID: "p-mug", Strength: 30},
	}
	for i := range associations {
		if err := s.UpsertAssociation(ctx, &associations[i]); err != nil {
			return err
		}
	}
	return nil
}
