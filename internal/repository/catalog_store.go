package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

// CatalogStore is the storage the importer reconciles against.  It
// composes the per-table repositories over one connection pool and relies
// on their unique keys to keep concurrent imports from duplicating rows.
type CatalogStore struct {
	Restaurants *RestaurantRepo
	Menus       *MenuRepo
	Items       *MenuItemRepo
	Links       *MenuLinkRepo
}

// NewCatalogStore wires all repositories to db.
func NewCatalogStore(db *sqlx.DB) *CatalogStore {
	return &CatalogStore{
		Restaurants: NewRestaurantRepo(db),
		Menus:       NewMenuRepo(db),
		Items:       NewMenuItemRepo(db),
		Links:       NewMenuLinkRepo(db),
	}
}

func (s *CatalogStore) FindOrCreateRestaurant(ctx context.Context, name string) (*model.Restaurant, bool, error) {
	return s.Restaurants.FindOrCreate(ctx, name)
}

func (s *CatalogStore) FindOrCreateMenu(ctx context.Context, restaurantID uint64, name string) (*model.Menu, bool, error) {
	return s.Menus.FindOrCreate(ctx, restaurantID, name)
}

// FindMenuItemCaseInsensitive returns nil, nil when the restaurant has no
// item by that name.
func (s *CatalogStore) FindMenuItemCaseInsensitive(ctx context.Context, restaurantID uint64, name string) (*model.MenuItem, error) {
	it, err := s.Items.GetByNameFold(ctx, restaurantID, name)
	if errors.Is(err, ErrMenuItemNotFound) {
		return nil, nil
	}
	return it, err
}

// CreateMenuItem inserts a new item.  If a concurrent import inserted the
// same name first, that row is returned with the requested price applied.
func (s *CatalogStore) CreateMenuItem(ctx context.Context, restaurantID uint64, name string, priceCents int64) (*model.MenuItem, error) {
	it := &model.MenuItem{RestaurantID: restaurantID, Name: name, PriceCents: priceCents}
	err := s.Items.Create(ctx, it)
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, ErrConflict) {
		return nil, err
	}
	existing, err := s.Items.GetByNameFold(ctx, restaurantID, name)
	if err != nil {
		return nil, err
	}
	if existing.PriceCents != priceCents {
		if err := s.Items.UpdatePrice(ctx, existing.ID, priceCents); err != nil {
			return nil, err
		}
		existing.PriceCents = priceCents
	}
	return existing, nil
}

func (s *CatalogStore) UpdateMenuItemPrice(ctx context.Context, itemID uint64, priceCents int64) error {
	return s.Items.UpdatePrice(ctx, itemID, priceCents)
}

func (s *CatalogStore) LinkExists(ctx context.Context, menuID, itemID uint64) (bool, error) {
	return s.Links.Exists(ctx, menuID, itemID)
}

func (s *CatalogStore) CreateLink(ctx context.Context, menuID, itemID uint64) error {
	return s.Links.Create(ctx, menuID, itemID)
}
