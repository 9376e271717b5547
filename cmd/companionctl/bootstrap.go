package main

import (
	"context"
	"fmt"
	"io"

	"github.com/infohub-ai/knowledge-companion/internal/store/postgres"
)

func runBootstrap(ctx context.Context, dsn string, out io.Writer) error {
	if dsn == "" {
		return fmt.Errorf("dsn cannot be empty")
	}
	if err := postgres.Bootstrap(ctx, dsn); err != nil {
		return err
	}
	fmt.Fprintln(out, "schema ready")
	return nil
}
