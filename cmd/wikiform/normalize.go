package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-wikiform/internal/artifacts"
	"github.com/goliatone/go-wikiform/pkg/wikitext"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Flatten fetched documents into the normalized artifact",
	Long: `Normalize reads the raw per-template artifacts written by fetch, flattens
every table into renderer-ready records, and writes finalTables.json plus
the FMBFAMILY-FINAL.json renderer input.`,
	Args: cobra.NoArgs,
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
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

	docs := make([]wikitext.Document, 0, len(cfg.Templates))
	for _, template := range cfg.Templates {
		doc, err := store.ReadRawDocument(template)
		if err != nil {
			return fmt.Errorf("read raw artifact for %q: %w", template, err)
		}
		docs = append(docs, doc)
	}

	merged, err := orch.Normalize(docs...)
	if err != nil {
		return err
	}
	log.Printf("normalized %d sections into %s", len(merged.Sections), artifacts.NormalizedName)
	return nil
}
