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

var restaurantColumns = []string{"id", "name", "created_at", "updated_at"}

// RestaurantRepo encapsulates all database queries related to restaurants.
// It depends on a sqlx.DB connection which should be configured elsewhere.
type RestaurantRepo struct {
	db *sqlx.DB // db is the underlying database connection pool
}

// NewRestaurantRepo constructs a RestaurantRepo with the provided DB handle.
func NewRestaurantRepo(db *sqlx.DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

// Create validates and inserts a restaurant.  On success the ID and
// timestamps are populated.  A duplicate name yields ErrConflict.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	rest.Name = strings.TrimSpace(rest.Name)
	if err := model.Validate(rest); err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)

	ib := sqlbuilder.MySQL.NewInsertBuilder()
	ib.InsertInto("restaurants")
	ib.Cols("name", "created_at", "updated_at")
	ib.Values(rest.Name, now, now)

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
	rest.ID = uint64(id)
	rest.CreatedAt, rest.UpdatedAt = now, now
	return nil
}

// GetByID fetches a restaurant by its ID.  It returns ErrRestaurantNotFound
// if no row is found.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(restaurantColumns...)
	sb.From("restaurants")
	sb.Where(sb.Equal("id", id))
	return r.getOne(ctx, sb)
}

// GetByName fetches a restaurant by exact (case-sensitive) name.
func (r *RestaurantRepo) GetByName(ctx context.Context, name string) (*model.Restaurant, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(restaurantColumns...)
	sb.From("restaurants")
	sb.Where(sb.Equal("name", strings.TrimSpace(name)))
	return r.getOne(ctx, sb)
}

func (r *RestaurantRepo) getOne(ctx context.Context, sb *sqlbuilder.SelectBuilder) (*model.Restaurant, error) {
	query, args := sb.Build()
	var rest model.Restaurant
	if err := r.db.GetContext(ctx, &rest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &rest, nil
}

// List returns all restaurants ordered by id.
func (r *RestaurantRepo) List(ctx context.Context) ([]*model.Restaurant, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select(restaurantColumns...)
	sb.From("restaurants")
	sb.OrderBy("id")

	query, args := sb.Build()
	var out []*model.Restaurant
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOrCreate returns the restaurant with the trimmed name, inserting it
// when missing.  The bool is true when this call inserted the row.  If a
// concurrent insert wins the unique key, the winner's row is returned.
func (r *RestaurantRepo) FindOrCreate(ctx context.Context, name string) (*model.Restaurant, bool, error) {
	name = strings.TrimSpace(name)
	rest, err := r.GetByName(ctx, name)
	if err == nil {
		return rest, false, nil
	}
	if !errors.Is(err, ErrRestaurantNotFound) {
		return nil, false, err
	}

	rest = &model.Restaurant{Name: name}
	if err := r.Create(ctx, rest); err != nil {
		if errors.Is(err, ErrConflict) {
			rest, err = r.GetByName(ctx, name)
			return rest, false, err
		}
		return nil, false, err
	}
	return rest, true, nil
}
