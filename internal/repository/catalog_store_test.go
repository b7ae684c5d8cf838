package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-catalog/internal/database/dbtest"
	"github.com/iliyamo/restaurant-catalog/internal/importer"
	"github.com/iliyamo/restaurant-catalog/internal/model"
	"github.com/iliyamo/restaurant-catalog/internal/repository"
)

var _ importer.Store = (*repository.CatalogStore)(nil)

func newStore(t *testing.T) *repository.CatalogStore {
	t.Helper()
	return repository.NewCatalogStore(dbtest.New(t))
}

func TestRestaurantFindOrCreate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	r1, created, err := s.FindOrCreateRestaurant(ctx, "  Poppo's Cafe ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Poppo's Cafe", r1.Name)
	assert.NotZero(t, r1.ID)

	r2, created, err := s.FindOrCreateRestaurant(ctx, "Poppo's Cafe")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, r1.ID, r2.ID)

	r3, created, err := s.FindOrCreateRestaurant(ctx, "poppo's cafe")
	require.NoError(t, err)
	assert.True(t, created, "restaurant names match case-sensitively")
	assert.NotEqual(t, r1.ID, r3.ID)

	_, _, err = s.FindOrCreateRestaurant(ctx, "   ")
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestRestaurantGetByID(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r, _, err := s.FindOrCreateRestaurant(ctx, "Casa")
	require.NoError(t, err)

	got, err := s.Restaurants.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Casa", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.Restaurants.GetByID(ctx, r.ID+100)
	assert.ErrorIs(t, err, repository.ErrRestaurantNotFound)
}

func TestMenuFindOrCreateIsScopedAndCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a, _, _ := s.FindOrCreateRestaurant(ctx, "A")
	b, _, _ := s.FindOrCreateRestaurant(ctx, "B")

	m1, created, err := s.FindOrCreateMenu(ctx, a.ID, "Lunch")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, m1.RestaurantID)
	assert.Equal(t, a.ID, *m1.RestaurantID)

	m2, created, err := s.FindOrCreateMenu(ctx, a.ID, " Lunch ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, m1.ID, m2.ID)

	_, created, err = s.FindOrCreateMenu(ctx, a.ID, "lunch")
	require.NoError(t, err)
	assert.True(t, created)

	m4, created, err := s.FindOrCreateMenu(ctx, b.ID, "Lunch")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, m1.ID, m4.ID)

	menus, err := s.Menus.ListByRestaurants(ctx, []uint64{a.ID})
	require.NoError(t, err)
	assert.Len(t, menus, 2)
}

func TestMenuItemLookupIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r, _, _ := s.FindOrCreateRestaurant(ctx, "Diner")
	other, _, _ := s.FindOrCreateRestaurant(ctx, "Other")

	it, err := s.CreateMenuItem(ctx, r.ID, "Burger", 999)
	require.NoError(t, err)
	assert.Equal(t, "Burger", it.Name)

	found, err := s.FindMenuItemCaseInsensitive(ctx, r.ID, "bUrGeR")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, it.ID, found.ID)
	assert.Equal(t, int64(999), found.PriceCents)

	missing, err := s.FindMenuItemCaseInsensitive(ctx, other.ID, "Burger")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMenuItemLookupKeepsAccents(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r, _, _ := s.FindOrCreateRestaurant(ctx, "Bistro")

	plain, err := s.CreateMenuItem(ctx, r.ID, "Creme Brulee", 700)
	require.NoError(t, err)

	missing, err := s.FindMenuItemCaseInsensitive(ctx, r.ID, "Crème Brûlée")
	require.NoError(t, err)
	assert.Nil(t, missing, "accented names are different items")

	accented, err := s.CreateMenuItem(ctx, r.ID, "Crème Brûlée", 900)
	require.NoError(t, err)
	assert.NotEqual(t, plain.ID, accented.ID)

	got, err := s.Items.GetByID(ctx, plain.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(700), got.PriceCents, "the unaccented item keeps its price")

	found, err := s.FindMenuItemCaseInsensitive(ctx, r.ID, "CREME BRULEE")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, plain.ID, found.ID)
}

func TestMenuItemNamesAreUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r, _, _ := s.FindOrCreateRestaurant(ctx, "Diner")

	first := &model.MenuItem{RestaurantID: r.ID, Name: "Fries", PriceCents: 300}
	require.NoError(t, s.Items.Create(ctx, first))

	err := s.Items.Create(ctx, &model.MenuItem{RestaurantID: r.ID, Name: "FRIES", PriceCents: 300})
	assert.Error(t, err)
}

func TestUpdateMenuItemPrice(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r, _, _ := s.FindOrCreateRestaurant(ctx, "Diner")
	it, err := s.CreateMenuItem(ctx, r.ID, "Shake", 400)
	require.NoError(t, err)

	require.NoError(t, s.UpdateMenuItemPrice(ctx, it.ID, 550))
	got, err := s.Items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(550), got.PriceCents)
	assert.InDelta(t, 5.5, got.Price(), 1e-9)

	assert.ErrorIs(t, s.UpdateMenuItemPrice(ctx, it.ID, -1), model.ErrInvalid)
	assert.ErrorIs(t, s.UpdateMenuItemPrice(ctx, it.ID+50, 100), repository.ErrMenuItemNotFound)

	_, err = s.CreateMenuItem(ctx, r.ID, "Refund", -5)
	assert.ErrorIs(t, err, model.ErrInvalid)

	assert.ErrorIs(t, s.UpdateMenuItemPrice(ctx, it.ID, model.MaxPriceCents+1), model.ErrInvalid)
	_, err = s.CreateMenuItem(ctx, r.ID, "Caviar", model.MaxPriceCents+1)
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestLinks(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	a, _, _ := s.FindOrCreateRestaurant(ctx, "A")
	b, _, _ := s.FindOrCreateRestaurant(ctx, "B")
	lunch, _, _ := s.FindOrCreateMenu(ctx, a.ID, "lunch")
	dinner, _, _ := s.FindOrCreateMenu(ctx, a.ID, "dinner")
	soup, _ := s.CreateMenuItem(ctx, a.ID, "Soup", 400)
	foreign, _ := s.CreateMenuItem(ctx, b.ID, "Soup", 500)

	ok, err := s.LinkExists(ctx, lunch.ID, soup.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.CreateLink(ctx, lunch.ID, soup.ID))
	require.NoError(t, s.CreateLink(ctx, dinner.ID, soup.ID))
	ok, err = s.LinkExists(ctx, lunch.ID, soup.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Error(t, s.CreateLink(ctx, lunch.ID, soup.ID), "pairs are unique")
	assert.ErrorIs(t, s.CreateLink(ctx, lunch.ID, foreign.ID), repository.ErrCrossRestaurantLink)
	assert.ErrorIs(t, s.CreateLink(ctx, lunch.ID, 9999), repository.ErrMenuNotFound)

	items, err := s.Links.ItemsByMenus(ctx, []uint64{lunch.ID, dinner.ID})
	require.NoError(t, err)
	require.Len(t, items[lunch.ID], 1)
	assert.Equal(t, "Soup", items[lunch.ID][0].Name)
	assert.Equal(t, int64(400), items[dinner.ID][0].PriceCents)

	menus, err := s.Links.MenusByItems(ctx, []uint64{soup.ID, foreign.ID})
	require.NoError(t, err)
	require.Len(t, menus[soup.ID], 2)
	assert.Equal(t, "lunch", menus[soup.ID][0].Name)
	assert.Empty(t, menus[foreign.ID])
}

func TestImportAgainstDatabase(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	im := importer.New(s, nil)

	doc := `{"restaurants":[{"name":"Poppo's Cafe","menus":[
		{"name":"lunch","menu_items":[{"name":"Burger","price":9.00},{"name":"Small Salad","price":5.00}]},
		{"name":"dinner","dishes":[{"name":"burger","price":"$15.00"},{"name":"Large Salad","price":8.00}]}]},
		{"name":"Casa del Poppo","menus":[{"name":"lunch","menu_items":[{"name":"Burger","price":10}]}]}]}`

	res := im.Import(ctx, []byte(doc))
	require.True(t, res.Success, res.Logs)
	assert.Equal(t, 5, res.SuccessCount)

	// lunch and dinner disagree on the burger price, so a re-run flips it
	// twice and lands on the last value again
	again := im.Import(ctx, []byte(doc))
	require.True(t, again.Success)
	assert.Equal(t, 2, again.Changes.PricesUpdated)
	assert.Zero(t, again.Changes.ItemsCreated+again.Changes.LinksCreated+again.Changes.MenusCreated)

	restaurants, err := s.Restaurants.List(ctx)
	require.NoError(t, err)
	require.Len(t, restaurants, 2)

	items, err := s.Items.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "Burger", items[0].Name)
	assert.Equal(t, int64(1500), items[0].PriceCents)

	menus, err := s.Menus.List(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 3)
	byMenu, err := s.Links.ItemsByMenus(ctx, []uint64{menus[0].ID, menus[1].ID})
	require.NoError(t, err)
	assert.Len(t, byMenu[menus[0].ID], 2)
	assert.Len(t, byMenu[menus[1].ID], 2)
}
