package main

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-catalog/internal/cli"
	"github.com/iliyamo/restaurant-catalog/internal/config"
	"github.com/iliyamo/restaurant-catalog/internal/database"
	"github.com/iliyamo/restaurant-catalog/internal/logging"
)

var version = "dev"

func main() {
	config.LoadDotEnv()
	lc := config.LoadLogConfig()
	logger, err := logging.New(lc.Level, lc.Pretty)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	var (
		once  sync.Once
		db    *sqlx.DB
		dbErr error
	)
	openDB := func(context.Context) (*sqlx.DB, error) {
		once.Do(func() {
			c := config.LoadDBConfig()
			db, dbErr = database.Open(c.User, c.Pass, c.Host, c.Port, c.Name, database.Options{MaxOpenConns: 4})
		})
		return db, dbErr
	}

	deps := cli.Dependencies{OpenDB: openDB, Logger: logger, Stdin: os.Stdin, Version: version}
	code := cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr)

	if db != nil {
		_ = db.Close()
	}
	_ = logger.Sync()
	os.Exit(code)
}
