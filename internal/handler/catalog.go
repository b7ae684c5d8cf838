package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-catalog/internal/model"
	"github.com/iliyamo/restaurant-catalog/internal/repository"
)

// CatalogHandler serves the read-only catalog: restaurants with their menus,
// menus with their items and items with the menus listing them.
type CatalogHandler struct {
	Restaurants *repository.RestaurantRepo
	Menus       *repository.MenuRepo
	Items       *repository.MenuItemRepo
	Links       *repository.MenuLinkRepo
}

// NewCatalogHandler exposes the repositories of a CatalogStore.
func NewCatalogHandler(s *repository.CatalogStore) *CatalogHandler {
	return &CatalogHandler{Restaurants: s.Restaurants, Menus: s.Menus, Items: s.Items, Links: s.Links}
}

// ListRestaurants returns every restaurant with nested menus and items.
// Response JSON contains an "items" array of RestaurantView.
func (h *CatalogHandler) ListRestaurants(c echo.Context) error {
	ctx := c.Request().Context()
	restaurants, err := h.Restaurants.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out, err := h.nestRestaurants(ctx, restaurants)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRestaurant returns one restaurant with nested menus and items.
func (h *CatalogHandler) GetRestaurant(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	r, err := h.Restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out, err := h.nestRestaurants(ctx, []*model.Restaurant{r})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, out[0])
}

func (h *CatalogHandler) nestRestaurants(ctx context.Context, restaurants []*model.Restaurant) ([]RestaurantView, error) {
	ids := make([]uint64, 0, len(restaurants))
	for _, r := range restaurants {
		ids = append(ids, r.ID)
	}
	menus, err := h.Menus.ListByRestaurants(ctx, ids)
	if err != nil {
		return nil, err
	}
	items, err := h.Links.ItemsByMenus(ctx, menuIDs(menus))
	if err != nil {
		return nil, err
	}
	byOwner := make(map[uint64][]MenuView, len(restaurants))
	for _, m := range menus {
		if m.RestaurantID == nil {
			continue
		}
		byOwner[*m.RestaurantID] = append(byOwner[*m.RestaurantID], menuView(m, items[m.ID], nil))
	}

	out := make([]RestaurantView, 0, len(restaurants))
	for _, r := range restaurants {
		nested := byOwner[r.ID]
		if nested == nil {
			nested = []MenuView{}
		}
		out = append(out, RestaurantView{ID: r.ID, Name: r.Name, Menus: nested, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt})
	}
	return out, nil
}

// ListMenus returns every menu with its owner and items.
func (h *CatalogHandler) ListMenus(c echo.Context) error {
	ctx := c.Request().Context()
	menus, err := h.Menus.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out, err := h.nestMenus(ctx, menus)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetMenu returns one menu with its owner and items.
func (h *CatalogHandler) GetMenu(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Menus.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMenuNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out, err := h.nestMenus(ctx, []*model.Menu{m})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, out[0])
}

func (h *CatalogHandler) nestMenus(ctx context.Context, menus []*model.Menu) ([]MenuView, error) {
	items, err := h.Links.ItemsByMenus(ctx, menuIDs(menus))
	if err != nil {
		return nil, err
	}
	owners, err := h.restaurantsByID(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MenuView, 0, len(menus))
	for _, m := range menus {
		var owner *model.Restaurant
		if m.RestaurantID != nil {
			owner = owners[*m.RestaurantID]
		}
		out = append(out, menuView(m, items[m.ID], owner))
	}
	return out, nil
}

// ListMenuItems returns every item with its owner and the menus listing it.
func (h *CatalogHandler) ListMenuItems(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.Items.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	menus, err := h.Links.MenusByItems(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	owners, err := h.restaurantsByID(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	out := make([]MenuItemDetail, 0, len(items))
	for _, it := range items {
		d := MenuItemDetail{MenuItemView: itemView(it), Menus: make([]MenuRef, 0, len(menus[it.ID]))}
		if r := owners[it.RestaurantID]; r != nil {
			d.Restaurant = &RestaurantRef{ID: r.ID, Name: r.Name}
		}
		for _, m := range menus[it.ID] {
			d.Menus = append(d.Menus, MenuRef{ID: m.ID, Name: m.Name})
		}
		out = append(out, d)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

func (h *CatalogHandler) restaurantsByID(ctx context.Context) (map[uint64]*model.Restaurant, error) {
	all, err := h.Restaurants.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]*model.Restaurant, len(all))
	for _, r := range all {
		out[r.ID] = r
	}
	return out, nil
}

func menuIDs(menus []*model.Menu) []uint64 {
	ids := make([]uint64, 0, len(menus))
	for _, m := range menus {
		ids = append(ids, m.ID)
	}
	return ids
}
