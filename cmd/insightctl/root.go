package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"insightedge/backend/models"
	"insightedge/backend/utils"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "insightctl",
		Short:        "Business dashboard metrics from CSV/XLSX files",
		Long:         "Analyze sales files, ask questions about them and mint API tokens.",
		SilenceUsage: true,
	}
	root.AddCommand(newAnalyzeCmd(), newAskCmd(), newTokenCmd())
	return root
}

// loadDataset reads a .csv or .xlsx file into a dataset.
func loadDataset(path string) (models.Dataset, error) {
	if path == "" {
		return models.Dataset{}, fmt.Errorf("--file is required")
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("reading %s: %w", path, err)
	}
	ds, err := utils.ReadTable(buf, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return models.Dataset{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ds, nil
}

// loadMapping reads column overrides from a TOML file such as
//
//	revenue = "Net Sales"
//	date = "Order Date"
func loadMapping(path string) (*models.ColumnMapping, error) {
	if path == "" {
		return nil, nil
	}
	var m models.ColumnMapping
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("parsing mapping: %w", err)
	}
	return &m, nil
}
