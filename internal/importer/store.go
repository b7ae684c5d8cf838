package importer

import (
	"context"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

// Store is the persistence the importer reconciles against.  Every method
// must be safe to call from concurrent imports: find-or-create must not
// produce duplicates when two imports race on the same name.
type Store interface {
	// FindOrCreateRestaurant matches the trimmed name exactly.  The bool is
	// true when a new row was inserted.
	FindOrCreateRestaurant(ctx context.Context, name string) (*model.Restaurant, bool, error)
	// FindOrCreateMenu matches the trimmed name exactly within the restaurant.
	FindOrCreateMenu(ctx context.Context, restaurantID uint64, name string) (*model.Menu, bool, error)
	// FindMenuItemCaseInsensitive returns nil, nil when nothing matches.
	FindMenuItemCaseInsensitive(ctx context.Context, restaurantID uint64, name string) (*model.MenuItem, error)
	CreateMenuItem(ctx context.Context, restaurantID uint64, name string, priceCents int64) (*model.MenuItem, error)
	UpdateMenuItemPrice(ctx context.Context, itemID uint64, priceCents int64) error
	LinkExists(ctx context.Context, menuID, itemID uint64) (bool, error)
	CreateLink(ctx context.Context, menuID, itemID uint64) error
}
