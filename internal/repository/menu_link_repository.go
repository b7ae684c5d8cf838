package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

// MenuLinkRepo manages the menu_menu_items join table.  Each (menu, item)
// pair is stored at most once and both sides must share a restaurant.
type MenuLinkRepo struct {
	db *sqlx.DB
}

// NewMenuLinkRepo constructs a MenuLinkRepo with the provided DB handle.
func NewMenuLinkRepo(db *sqlx.DB) *MenuLinkRepo {
	return &MenuLinkRepo{db: db}
}

// Exists reports whether menuID already lists itemID.
func (r *MenuLinkRepo) Exists(ctx context.Context, menuID, itemID uint64) (bool, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("menu_menu_items")
	sb.Where(
		sb.Equal("menu_id", menuID),
		sb.Equal("menu_item_id", itemID),
	)

	query, args := sb.Build()
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create links itemID to menuID.  It returns ErrCrossRestaurantLink when
// the two belong to different restaurants, ErrMenuNotFound when either
// side is missing and ErrConflict when the pair already exists.
func (r *MenuLinkRepo) Create(ctx context.Context, menuID, itemID uint64) error {
	if err := r.checkSameRestaurant(ctx, menuID, itemID); err != nil {
		return err
	}
	link := model.MenuMenuItem{MenuID: menuID, MenuItemID: itemID}
	if err := model.Validate(&link); err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)

	ib := sqlbuilder.MySQL.NewInsertBuilder()
	ib.InsertInto("menu_menu_items")
	ib.Cols("menu_id", "menu_item_id", "created_at", "updated_at")
	ib.Values(menuID, itemID, now, now)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *MenuLinkRepo) checkSameRestaurant(ctx context.Context, menuID, itemID uint64) error {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select("m.restaurant_id AS menu_restaurant_id", "mi.restaurant_id AS item_restaurant_id")
	sb.From("menus AS m", "menu_items AS mi")
	sb.Where(
		sb.Equal("m.id", menuID),
		sb.Equal("mi.id", itemID),
	)

	query, args := sb.Build()
	var owners struct {
		Menu *uint64 `db:"menu_restaurant_id"`
		Item uint64  `db:"item_restaurant_id"`
	}
	if err := r.db.GetContext(ctx, &owners, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMenuNotFound
		}
		return err
	}
	if owners.Menu == nil || *owners.Menu != owners.Item {
		return ErrCrossRestaurantLink
	}
	return nil
}

// linkedItem is a menu item row tagged with the menu that lists it.
type linkedItem struct {
	MenuID uint64 `db:"menu_id"`
	model.MenuItem
}

// ItemsByMenus returns the items of each menu, keyed by menu id and
// ordered by item id.
func (r *MenuLinkRepo) ItemsByMenus(ctx context.Context, menuIDs []uint64) (map[uint64][]*model.MenuItem, error) {
	out := make(map[uint64][]*model.MenuItem, len(menuIDs))
	if len(menuIDs) == 0 {
		return out, nil
	}
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(
		"mmi.menu_id AS menu_id",
		"mi.id AS id",
		"mi.restaurant_id AS restaurant_id",
		"mi.name AS name",
		"mi.price_cents AS price_cents",
		"mi.created_at AS created_at",
		"mi.updated_at AS updated_at",
	)
	sb.From("menu_menu_items AS mmi")
	sb.Join("menu_items AS mi", "mi.id = mmi.menu_item_id")
	sb.Where(sb.In("mmi.menu_id", idsToAny(menuIDs)...))
	sb.OrderBy("mmi.menu_id", "mi.id")

	query, args := sb.Build()
	var rows []linkedItem
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for i := range rows {
		item := rows[i].MenuItem
		out[rows[i].MenuID] = append(out[rows[i].MenuID], &item)
	}
	return out, nil
}

// linkedMenu is a menu row tagged with the item it lists.
type linkedMenu struct {
	MenuItemID uint64 `db:"menu_item_id"`
	model.Menu
}

// MenusByItems returns the menus listing each item, keyed by item id and
// ordered by menu id.
func (r *MenuLinkRepo) MenusByItems(ctx context.Context, itemIDs []uint64) (map[uint64][]*model.Menu, error) {
	out := make(map[uint64][]*model.Menu, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(
		"mmi.menu_item_id AS menu_item_id",
		"m.id AS id",
		"m.restaurant_id AS restaurant_id",
		"m.name AS name",
		"m.created_at AS created_at",
		"m.updated_at AS updated_at",
	)
	sb.From("menu_menu_items AS mmi")
	sb.Join("menus AS m", "m.id = mmi.menu_id")
	sb.Where(sb.In("mmi.menu_item_id", idsToAny(itemIDs)...))
	sb.OrderBy("mmi.menu_item_id", "m.id")

	query, args := sb.Build()
	var rows []linkedMenu
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for i := range rows {
		menu := rows[i].Menu
		out[rows[i].MenuItemID] = append(out[rows[i].MenuItemID], &menu)
	}
	return out, nil
}
