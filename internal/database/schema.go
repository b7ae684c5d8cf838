package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// mysqlSchema creates the catalog tables.  Restaurant and menu names use a
// binary collation so lookups are case-sensitive.  Menu item names use
// utf8mb4_0900_as_ci (MySQL 8.0+), which folds case but keeps accents, so
// "Cafe" and "Café" stay two items while "cafe" matches "Cafe".
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_restaurants_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS menus (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		restaurant_id BIGINT UNSIGNED NULL,
		name          VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_menus_restaurant_name (restaurant_id, name),
		CONSTRAINT fk_menus_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		restaurant_id BIGINT UNSIGNED NOT NULL,
		name          VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_0900_as_ci NOT NULL,
		price_cents   BIGINT NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_menu_items_restaurant_name (restaurant_id, name),
		CONSTRAINT chk_menu_items_price CHECK (price_cents BETWEEN 0 AND 99999999),
		CONSTRAINT fk_menu_items_restaurant FOREIGN KEY (restaurant_id) REFERENCES restaurants (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS menu_menu_items (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		menu_id      BIGINT UNSIGNED NOT NULL,
		menu_item_id BIGINT UNSIGNED NOT NULL,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_menu_menu_items_pair (menu_id, menu_item_id),
		CONSTRAINT fk_mmi_menu FOREIGN KEY (menu_id) REFERENCES menus (id) ON DELETE CASCADE,
		CONSTRAINT fk_mmi_item FOREIGN KEY (menu_item_id) REFERENCES menu_items (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// sqliteSchema mirrors mysqlSchema for the in-memory test database.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS menus (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		restaurant_id INTEGER NULL REFERENCES restaurants (id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (restaurant_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants (id) ON DELETE CASCADE,
		name          TEXT NOT NULL COLLATE NOCASE,
		price_cents   INTEGER NOT NULL CHECK (price_cents BETWEEN 0 AND 99999999),
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (restaurant_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS menu_menu_items (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		menu_id      INTEGER NOT NULL REFERENCES menus (id) ON DELETE CASCADE,
		menu_item_id INTEGER NOT NULL REFERENCES menu_items (id) ON DELETE CASCADE,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (menu_id, menu_item_id)
	)`,
}

// EnsureSchema creates any missing table.  The statements are picked by
// driver so the same call works against MySQL and the sqlite3 test driver.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	stmts := mysqlSchema
	if db.DriverName() == "sqlite3" {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
