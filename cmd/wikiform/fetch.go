package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/goliatone/go-wikiform/internal/artifacts"
	"github.com/goliatone/go-wikiform/internal/prompt"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and parse the configured wiki templates",
	Long: `Fetch expands each configured template through the wiki API, parses the
returned wikitext, and writes one {TemplateName}.json artifact per template.
Interactive sessions are asked before an existing artifact is overwritten.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()
	for _, template := range cfg.Templates {
		overwrite, err := confirmOverwrite(ctx, store, template)
		if err != nil {
			return err
		}
		if !overwrite {
			log.Printf("keeping existing %s", artifacts.RawDocumentName(template))
			continue
		}
		if _, err := orch.Fetch(ctx, template); err != nil {
			return err
		}
		log.Printf("fetched %q into %s", template, artifacts.RawDocumentName(template))
	}
	return nil
}

// confirmOverwrite asks before clobbering an existing raw artifact when stdin
// is a terminal. Non-interactive runs always overwrite.
func confirmOverwrite(ctx context.Context, store *artifacts.Store, template string) (bool, error) {
	path := filepath.Join(store.Dir, artifacts.RawDocumentName(template))
	if _, err := os.Stat(path); err != nil {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true, nil
	}
	return prompter.Confirm(ctx, prompt.ConfirmConfig{
		Message: fmt.Sprintf("Overwrite %s?", filepath.Base(path)),
		Default: true,
	})
}
