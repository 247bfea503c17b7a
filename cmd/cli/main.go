package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"seriesgen/internal/model"
)

func main() {
	_ = godotenv.Load()

	app := newApp(os.Stdout)
	if err := app.Run(context.Background(), os.Args); err != nil {
		var pe *model.PipelineError
		if errors.As(err, &pe) {
			fmt.Fprintf(os.Stderr, "error [%s]: %v\n", pe.Kind, pe)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
