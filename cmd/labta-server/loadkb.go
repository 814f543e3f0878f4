package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"labta/internal/knowledge"
	"labta/internal/labconfig"
)

var loadkbDataDir string

var loadkbCmd = &cobra.Command{
	Use:   "loadkb",
	Short: "Load the knowledge base and report what was merged",
	RunE:  runLoadKB,
}

func init() {
	loadkbCmd.Flags().StringVar(&loadkbDataDir, "data-dir", "", "override LABTA_DATA_DIR")
}

func runLoadKB(cmd *cobra.Command, args []string) error {
	cfg := labconfig.Load()
	dataDir := cfg.DataDir
	if loadkbDataDir != "" {
		dataDir = loadkbDataDir
	}

	base, err := knowledge.Load(dataDir, knowledgeDictFile, knowledgeCitedFile)
	if err != nil {
		return fmt.Errorf("loading knowledge base from %s: %w", dataDir, err)
	}

	catalog := base.Catalog()
	fmt.Printf("loaded %d priority-dictionary entries from %s\n", len(catalog), dataDir)
	for _, entry := range knowledge.SortedByPriority(catalog) {
		fmt.Printf("  priority %d  %-28s  %s\n", entry.Priority, entry.Type, entry.Concept)
	}
	return nil
}
