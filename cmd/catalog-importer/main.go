package main

import (
	"context"
	"flag"
	"os"

	entrypoint "github.com/medinal/swade-character-creator/internal/platform/cmd"
	"github.com/medinal/swade-character-creator/internal/platform/config"
	catalogimporter "github.com/medinal/swade-character-creator/internal/tools/importer/content/swade/v1"
)

func main() {
	cfg, err := catalogimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	err = entrypoint.RunWithTelemetry(context.Background(), entrypoint.ServiceImporter, func(ctx context.Context) error {
		return catalogimporter.Run(ctx, cfg, os.Stdout)
	})
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}
