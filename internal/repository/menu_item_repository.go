package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

var menuItemColumns = []string{"id", "restaurant_id", "name", "price_cents", "created_at", "updated_at"}

// MenuItemRepo encapsulates all database queries related to menu items.
// Item names are unique per restaurant ignoring case.
type MenuItemRepo struct {
	db *sqlx.DB
}

// NewMenuItemRepo constructs a MenuItemRepo with the provided DB handle.
func NewMenuItemRepo(db *sqlx.DB) *MenuItemRepo {
	return &MenuItemRepo{db: db}
}

// Create validates and inserts a menu item.  A name already used by the
// restaurant (in any casing) yields ErrConflict.
func (r *MenuItemRepo) Create(ctx context.Context, it *model.MenuItem) error {
	it.Name = strings.TrimSpace(it.Name)
	if err := model.Validate(it); err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)

	ib := sqlbuilder.MySQL.NewInsertBuilder()
	ib.InsertInto("menu_items")
	ib.Cols("restaurant_id", "name", "price_cents", "created_at", "updated_at")
	ib.Values(it.RestaurantID, it.Name, it.PriceCents, now, now)

	query, args := ib.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	it.CreatedAt, it.UpdatedAt = now, now
	return nil
}

// GetByID fetches a menu item by its ID or returns ErrMenuItemNotFound.
func (r *MenuItemRepo) GetByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(menuItemColumns...)
	sb.From("menu_items")
	sb.Where(sb.Equal("id", id))
	return r.getOne(ctx, sb)
}

// GetByNameFold fetches the restaurant's item whose name equals name
// ignoring case.  Both sides are lowered by the database.
func (r *MenuItemRepo) GetByNameFold(ctx context.Context, restaurantID uint64, name string) (*model.MenuItem, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(menuItemColumns...)
	sb.From("menu_items")
	sb.Where(
		sb.Equal("restaurant_id", restaurantID),
		"LOWER(name) = LOWER("+sb.Var(strings.TrimSpace(name))+")",
	)
	sb.Limit(1)
	return r.getOne(ctx, sb)
}

func (r *MenuItemRepo) getOne(ctx context.Context, sb *sqlbuilder.SelectBuilder) (*model.MenuItem, error) {
	query, args := sb.Build()
	var it model.MenuItem
	if err := r.db.GetContext(ctx, &it, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// List returns all menu items ordered by id.
func (r *MenuItemRepo) List(ctx context.Context) ([]*model.MenuItem, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(menuItemColumns...)
	sb.From("menu_items")
	sb.OrderBy("id")

	query, args := sb.Build()
	var out []*model.MenuItem
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePrice sets the price of an item.  It returns ErrMenuItemNotFound
// when no row is affected.
func (r *MenuItemRepo) UpdatePrice(ctx context.Context, id uint64, priceCents int64) error {
	if err := model.ValidatePriceCents(priceCents); err != nil {
		return err
	}
	ub := sqlbuilder.MySQL.NewUpdateBuilder()
	ub.Update("menu_items")
	ub.Set(
		ub.Assign("price_cents", priceCents),
		ub.Assign("updated_at", time.Now().UTC().Truncate(time.Second)),
	)
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
