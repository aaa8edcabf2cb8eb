// Command wfc generates grids by Wave Function Collapse.
//
// Usage:
//
//	wfc run   --library tiles.yaml --width 32 --height 16 [--backtrack] [--frames]
//	wfc batch --library tiles.yaml --size 100 --workers 8 > dataset.yaml
//
// See wfc --help for every flag; each flag also reads from the config file
// and from WFC_* environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/katalvlaran/wavecollapse/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
