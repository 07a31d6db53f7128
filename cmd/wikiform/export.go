package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-wikiform/internal/artifacts"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Project the normalized document to an OpenAPI schema",
	Long: `Export reads finalTables.json and writes openapi.json, describing every
parameter record as an OpenAPI 3 component schema.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	store, err := artifacts.New(cfg.OutputDir)
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, store)
	if err != nil {
		return err
	}

	doc, err := store.ReadNormalized()
	if err != nil {
		return err
	}

	if _, err := orch.Export(context.Background(), doc); err != nil {
		return err
	}
	log.Printf("wrote %s", artifacts.OpenAPIName)
	return nil
}
