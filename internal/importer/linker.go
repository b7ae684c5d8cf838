package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

// Linker keeps the menu/menu-item association free of duplicates.
type Linker struct {
	store Store
}

// NewLinker returns a Linker backed by store.
func NewLinker(store Store) *Linker {
	return &Linker{store: store}
}

// EnsureLinked associates item with menu unless they already are.  The
// bool is true only when a new link was written.  Both sides must belong
// to the same restaurant.
func (l *Linker) EnsureLinked(ctx context.Context, menu *model.Menu, item *model.MenuItem) (bool, error) {
	if !menu.BelongsTo(item.RestaurantID) {
		return false, model.ErrCrossRestaurantLink
	}
	exists, err := l.store.LinkExists(ctx, menu.ID, item.ID)
	if err != nil {
		return false, fmt.Errorf("check link: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := l.store.CreateLink(ctx, menu.ID, item.ID); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return false, nil // linked by a concurrent import
		}
		return false, fmt.Errorf("create link: %w", err)
	}
	return true, nil
}
