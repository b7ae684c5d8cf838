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

var menuColumns = []string{"id", "restaurant_id", "name", "created_at", "updated_at"}

// MenuRepo encapsulates all database queries related to menus.  Menu names
// are unique per restaurant and compared case-sensitively.
type MenuRepo struct {
	db *sqlx.DB
}

// NewMenuRepo constructs a MenuRepo with the provided DB handle.
func NewMenuRepo(db *sqlx.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

// Create validates and inserts a menu.  A duplicate (restaurant, name)
// pair yields ErrConflict.
func (r *MenuRepo) Create(ctx context.Context, m *model.Menu) error {
	m.Name = strings.TrimSpace(m.Name)
	if err := model.Validate(m); err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)

	ib := sqlbuilder.MySQL.NewInsertBuilder()
	ib.InsertInto("menus")
	ib.Cols("restaurant_id", "name", "created_at", "updated_at")
	ib.Values(m.RestaurantID, m.Name, now, now)

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
	m.ID = uint64(id)
	m.CreatedAt, m.UpdatedAt = now, now
	return nil
}

// GetByID fetches a menu by its ID or returns ErrMenuNotFound.
func (r *MenuRepo) GetByID(ctx context.Context, id uint64) (*model.Menu, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(menuColumns...)
	sb.From("menus")
	sb.Where(sb.Equal("id", id))
	return r.getOne(ctx, sb)
}

// GetByRestaurantAndName fetches the restaurant's menu with exactly this name.
func (r *MenuRepo) GetByRestaurantAndName(ctx context.Context, restaurantID uint64, name string) (*model.Menu, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(menuColumns...)
	sb.From("menus")
	sb.Where(
		sb.Equal("restaurant_id", restaurantID),
		sb.Equal("name", strings.TrimSpace(name)),
	)
	return r.getOne(ctx, sb)
}

func (r *MenuRepo) getOne(ctx context.Context, sb *sqlbuilder.SelectBuilder) (*model.Menu, error) {
	query, args := sb.Build()
	var m model.Menu
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all menus ordered by id.
func (r *MenuRepo) List(ctx context.Context) ([]*model.Menu, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(menuColumns...)
	sb.From("menus")
	sb.OrderBy("id")
	return r.selectMany(ctx, sb)
}

// ListByRestaurants returns the menus of the given restaurants ordered by id.
func (r *MenuRepo) ListByRestaurants(ctx context.Context, restaurantIDs []uint64) ([]*model.Menu, error) {
	if len(restaurantIDs) == 0 {
		return nil, nil
	}
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(menuColumns...)
	sb.From("menus")
	sb.Where(sb.In("restaurant_id", idsToAny(restaurantIDs)...))
	sb.OrderBy("id")
	return r.selectMany(ctx, sb)
}

func (r *MenuRepo) selectMany(ctx context.Context, sb *sqlbuilder.SelectBuilder) ([]*model.Menu, error) {
	query, args := sb.Build()
	var out []*model.Menu
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOrCreate returns the restaurant's menu with the trimmed name,
// inserting it when missing.  The bool is true when this call inserted it.
func (r *MenuRepo) FindOrCreate(ctx context.Context, restaurantID uint64, name string) (*model.Menu, bool, error) {
	name = strings.TrimSpace(name)
	m, err := r.GetByRestaurantAndName(ctx, restaurantID, name)
	if err == nil {
		return m, false, nil
	}
	if !errors.Is(err, ErrMenuNotFound) {
		return nil, false, err
	}

	rid := restaurantID
	m = &model.Menu{RestaurantID: &rid, Name: name}
	if err := r.Create(ctx, m); err != nil {
		if errors.Is(err, ErrConflict) {
			m, err = r.GetByRestaurantAndName(ctx, restaurantID, name)
			return m, false, err
		}
		return nil, false, err
	}
	return m, true, nil
}
