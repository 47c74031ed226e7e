// SlideStack: project spreadsheet to PDF deck generator
//
// Reads a spreadsheet of research projects and writes one A4 page per
// project, with every text field sized to its content.
//
// Build:
//   go build -o slidestack ./cmd/slidestack
//
// Usage:
//   slidestack render projetos.xlsx -o deck.pdf --clean --qr
//   slidestack layout projetos.xlsx > layouts.json
//   slidestack config init

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/SlideStack/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
