// Package cli implements catalogctl, the command-line front end to the
// catalog import.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Dependencies wires runtime services.  OpenDB is called lazily so help
// and flag errors never need a database.
type Dependencies struct {
	OpenDB  func(ctx context.Context) (*sqlx.DB, error)
	Logger  *zap.Logger
	Stdin   io.Reader
	Version string
}

// exitError carries a process exit code for an outcome already reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

// Execute runs the command tree and returns the process exit code: 0 on
// success, 2 for an import that reported success=false and 1 for any
// other failure.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var controlled *exitError
	if errors.As(err, &controlled) {
		return controlled.code
	}
	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return 1
}

func (d Dependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
