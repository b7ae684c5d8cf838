package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

// Resolver maps imported names onto stored records, creating what is
// missing.  Restaurant and menu names match exactly; menu item names
// match ignoring case within the owning restaurant.
type Resolver struct {
	store Store
}

// NewResolver returns a Resolver backed by store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveRestaurant finds or creates the restaurant with the trimmed name.
func (rv *Resolver) ResolveRestaurant(ctx context.Context, name string) (*model.Restaurant, bool, error) {
	name = strings.TrimSpace(name)
	if err := model.Validate(&model.Restaurant{Name: name}); err != nil {
		return nil, false, err
	}
	r, created, err := rv.store.FindOrCreateRestaurant(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("resolve restaurant: %w", err)
	}
	return r, created, nil
}

// ResolveMenu finds or creates the named menu inside restaurant.
func (rv *Resolver) ResolveMenu(ctx context.Context, restaurant *model.Restaurant, name string) (*model.Menu, bool, error) {
	name = strings.TrimSpace(name)
	if err := model.Validate(&model.Menu{RestaurantID: &restaurant.ID, Name: name}); err != nil {
		return nil, false, err
	}
	m, created, err := rv.store.FindOrCreateMenu(ctx, restaurant.ID, name)
	if err != nil {
		return nil, false, fmt.Errorf("resolve menu: %w", err)
	}
	return m, created, nil
}

// ItemResolution describes what ResolveMenuItem did.
type ItemResolution struct {
	Item          *model.MenuItem
	Created       bool  // a new row was inserted
	PriceUpdated  bool  // an existing row got a new price
	OldPriceCents int64 // price before the update
}

// ResolveMenuItem finds the restaurant's item by name ignoring case and
// brings its price to priceCents, or creates it.  The stored name keeps
// the casing it was first imported with.
func (rv *Resolver) ResolveMenuItem(ctx context.Context, restaurant *model.Restaurant, name string, priceCents int64) (ItemResolution, error) {
	name = strings.TrimSpace(name)
	candidate := model.MenuItem{RestaurantID: restaurant.ID, Name: name, PriceCents: priceCents}
	if err := model.Validate(&candidate); err != nil {
		return ItemResolution{}, err
	}

	existing, err := rv.store.FindMenuItemCaseInsensitive(ctx, restaurant.ID, name)
	if err != nil {
		return ItemResolution{}, fmt.Errorf("find menu item: %w", err)
	}
	if existing != nil {
		res := ItemResolution{Item: existing, OldPriceCents: existing.PriceCents}
		if existing.PriceCents != priceCents {
			if err := rv.store.UpdateMenuItemPrice(ctx, existing.ID, priceCents); err != nil {
				return ItemResolution{}, fmt.Errorf("update price: %w", err)
			}
			existing.PriceCents = priceCents
			res.PriceUpdated = true
		}
		return res, nil
	}

	item, err := rv.store.CreateMenuItem(ctx, restaurant.ID, name, priceCents)
	if err != nil {
		return ItemResolution{}, fmt.Errorf("create menu item: %w", err)
	}
	return ItemResolution{Item: item, Created: true}, nil
}
