package importer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

// memStore is an in-memory Store used by the importer tests.
type memStore struct {
	nextID      uint64
	restaurants []*model.Restaurant
	menus       []*model.Menu
	items       []*model.MenuItem
	links       map[[2]uint64]bool

	failCreateItem error // returned by CreateMenuItem when set
	failCreateLink error // returned by CreateLink when set
	panicOnMenu    string
}

func newMemStore() *memStore {
	return &memStore{links: map[[2]uint64]bool{}}
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) FindOrCreateRestaurant(_ context.Context, name string) (*model.Restaurant, bool, error) {
	for _, r := range s.restaurants {
		if r.Name == name {
			return r, false, nil
		}
	}
	r := &model.Restaurant{ID: s.id(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.restaurants = append(s.restaurants, r)
	return r, true, nil
}

func (s *memStore) FindOrCreateMenu(_ context.Context, restaurantID uint64, name string) (*model.Menu, bool, error) {
	if name == s.panicOnMenu {
		panic("menu store exploded")
	}
	for _, m := range s.menus {
		if m.BelongsTo(restaurantID) && m.Name == name {
			return m, false, nil
		}
	}
	rid := restaurantID
	m := &model.Menu{ID: s.id(), RestaurantID: &rid, Name: name}
	s.menus = append(s.menus, m)
	return m, true, nil
}

func (s *memStore) FindMenuItemCaseInsensitive(_ context.Context, restaurantID uint64, name string) (*model.MenuItem, error) {
	for _, it := range s.items {
		if it.RestaurantID == restaurantID && strings.EqualFold(it.Name, name) {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateMenuItem(_ context.Context, restaurantID uint64, name string, priceCents int64) (*model.MenuItem, error) {
	if s.failCreateItem != nil {
		return nil, s.failCreateItem
	}
	it := &model.MenuItem{ID: s.id(), RestaurantID: restaurantID, Name: name, PriceCents: priceCents}
	s.items = append(s.items, it)
	cp := *it
	return &cp, nil
}

func (s *memStore) UpdateMenuItemPrice(_ context.Context, itemID uint64, priceCents int64) error {
	for _, it := range s.items {
		if it.ID == itemID {
			it.PriceCents = priceCents
			return nil
		}
	}
	return errors.New("menu item not found")
}

func (s *memStore) LinkExists(_ context.Context, menuID, itemID uint64) (bool, error) {
	return s.links[[2]uint64{menuID, itemID}], nil
}

func (s *memStore) CreateLink(_ context.Context, menuID, itemID uint64) error {
	if s.failCreateLink != nil {
		return s.failCreateLink
	}
	key := [2]uint64{menuID, itemID}
	if s.links[key] {
		return model.ErrConflict
	}
	s.links[key] = true
	return nil
}

func (s *memStore) itemsOf(restaurant string) []*model.MenuItem {
	var rid uint64
	for _, r := range s.restaurants {
		if r.Name == restaurant {
			rid = r.ID
		}
	}
	var out []*model.MenuItem
	for _, it := range s.items {
		if it.RestaurantID == rid {
			out = append(out, it)
		}
	}
	return out
}

func (s *memStore) menuNamed(name string) *model.Menu {
	for _, m := range s.menus {
		if m.Name == name {
			return m
		}
	}
	return nil
}
