package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/go-formschema/internal/command"
)

var version = "dev"

func main() {
	app := command.New(version)
	if err := app.Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, command.ErrInvalidSchema) {
			fmt.Fprintf(os.Stderr, "formschema: %v\n", err)
		}
		os.Exit(1)
	}
}
