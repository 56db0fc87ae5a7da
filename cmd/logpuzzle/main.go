// Command logpuzzle finds the puzzle image URLs in an Apache access log and
// either lists them or downloads them into a directory with an index.html.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/logpuzzle/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
