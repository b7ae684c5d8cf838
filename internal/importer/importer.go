// Package importer reconciles a nested restaurant/menu/item JSON document
// against the catalog.  An import walks every restaurant, menu and item,
// creating what is missing, updating changed prices and linking items to
// menus.  A failure in one unit is logged and the walk continues; the
// caller gets a Result with counters and the full log.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/restaurant-catalog/internal/model"
)

// Importer runs imports against a Store.  It holds no per-import state and
// may be shared by concurrent callers.
type Importer struct {
	resolver *Resolver
	linker   *Linker
	logger   *zap.Logger
	now      func() time.Time
}

// Option customises an Importer.
type Option func(*Importer)

// WithClock replaces the clock used to stamp log entries.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// New builds an Importer.  A nil logger discards the mirrored log lines.
func New(store Store, logger *zap.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	im := &Importer{
		resolver: NewResolver(store),
		linker:   NewLinker(store),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import processes doc, which must already be syntactically valid JSON.
// The top level has to be an object with a non-empty "restaurants" array;
// otherwise nothing is written and the result carries a single error log.
// Writes are not rolled back when later units fail.
func (im *Importer) Import(ctx context.Context, doc json.RawMessage) Result {
	r := &run{logger: im.logger, now: im.now}

	restaurants, err := parseDocument(doc)
	switch {
	case errors.Is(err, errNoRestaurants):
		r.abort(msgNoRestaurants)
		return r.result()
	case err != nil:
		r.abort(msgInvalidStructure)
		return r.result()
	}

	for _, raw := range restaurants {
		if err := ctx.Err(); err != nil {
			r.abort(fmt.Sprintf("Import failed: %v", err))
			break
		}
		im.processRestaurant(ctx, r, raw)
	}
	return r.result()
}

func (im *Importer) processRestaurant(ctx context.Context, r *run, raw json.RawMessage) {
	var in RestaurantInput
	err := guard(func() error {
		if err := decodeObject(raw, &in); err != nil {
			return err
		}
		if in.Name.Blank() {
			r.error("Restaurant name is required")
			return nil
		}
		if !in.Name.Valid() {
			return errNameNotString
		}

		restaurant, created, err := im.resolver.ResolveRestaurant(ctx, in.Name.Value)
		if err != nil {
			return err
		}
		r.touched(restaurant.Name)
		if created {
			r.changes.RestaurantsCreated++
			r.info("Created new restaurant: %s", restaurant.Name)
		}

		menus, err := decodeList(in.Menus)
		if err != nil {
			return fmt.Errorf("menus: %w", err)
		}
		for _, m := range menus {
			im.processMenu(ctx, r, restaurant, m)
		}
		return nil
	})
	if err != nil {
		r.error("Failed to process restaurant '%s': %v", in.Name, err)
	}
}

func (im *Importer) processMenu(ctx context.Context, r *run, restaurant *model.Restaurant, raw json.RawMessage) {
	var in MenuInput
	err := guard(func() error {
		if err := decodeObject(raw, &in); err != nil {
			return err
		}
		if in.Name.Blank() {
			r.error("Menu name is required")
			return nil
		}
		if !in.Name.Valid() {
			return errNameNotString
		}

		menu, created, err := im.resolver.ResolveMenu(ctx, restaurant, in.Name.Value)
		if err != nil {
			return err
		}
		if created {
			r.changes.MenusCreated++
			r.info("Created new menu '%s' for restaurant '%s'", menu.Name, restaurant.Name)
		}

		items, err := decodeList(in.Items())
		if err != nil {
			return fmt.Errorf("menu items: %w", err)
		}
		for _, it := range items {
			im.processItem(ctx, r, restaurant, menu, it)
		}
		return nil
	})
	if err != nil {
		r.error("Failed to process menu '%s': %v", in.Name, err)
	}
}

func (im *Importer) processItem(ctx context.Context, r *run, restaurant *model.Restaurant, menu *model.Menu, raw json.RawMessage) {
	var in ItemInput
	err := guard(func() error {
		if err := decodeObject(raw, &in); err != nil {
			return err
		}
		if in.Name.Blank() {
			r.error("Menu item name is required")
			return nil
		}
		if in.Price.Blank() {
			r.error("Menu item price is required")
			return nil
		}
		if !in.Name.Valid() {
			return errNameNotString
		}
		price, ok := in.Price.Normalize()
		var cents int64
		if ok {
			cents, ok = model.PriceToCents(price)
		}
		if !ok {
			r.error("Invalid price format for '%s': %s", in.Name, in.Price)
			return nil
		}

		res, err := im.resolver.ResolveMenuItem(ctx, restaurant, in.Name.Value, cents)
		if err != nil {
			return err
		}
		switch {
		case res.Created:
			r.changes.ItemsCreated++
			r.info("Created new menu item '%s' with price %s", res.Item.Name, model.FormatCents(cents))
		case res.PriceUpdated:
			r.changes.PricesUpdated++
			r.info("Updated price for existing menu item '%s' from %s to %s",
				in.Name, model.FormatCents(res.OldPriceCents), model.FormatCents(cents))
		}

		linked, err := im.linker.EnsureLinked(ctx, menu, res.Item)
		if err != nil {
			return err
		}
		if linked {
			r.changes.LinksCreated++
			r.info("Associated menu item '%s' with menu '%s'", res.Item.Name, menu.Name)
		}
		r.successCount++
		return nil
	})
	if err != nil {
		r.error("Failed to process menu item '%s': %v", in.Name, err)
	}
}

// guard runs fn and turns a panic into an error so one bad unit cannot
// abort the whole import.
func guard(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("unexpected error: %v", rec)
		}
	}()
	return fn()
}
