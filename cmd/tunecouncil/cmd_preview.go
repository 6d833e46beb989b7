package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Pretty-print a session artifact (provider JSON or consensus CSV)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("file %q not found", path)
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".json":
				return previewJSON(cmd, path)
			case ".csv":
				return previewCSV(cmd, path)
			default:
				return fmt.Errorf("unsupported file type %q (supported: .json, .csv)", filepath.Ext(path))
			}
		},
	}
}

// previewJSON re-indents the artifact and, for provider responses, appends a
// recommendation count summary.
func previewJSON(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(pretty))
	if recs, ok := decoded["recommendations"].([]interface{}); ok {
		cmd.Printf("\nSummary: %d recommendations found\n", len(recs))
	}
	return nil
}

// previewCSV renders the consensus table with the artifact's own header row.
func previewCSV(cmd *cobra.Command, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return fmt.Errorf("invalid CSV in %s: %w", path, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("CSV file %s is empty", path)
	}
	t := table.New().Border(lipgloss.NormalBorder()).Headers(records[0]...)
	for _, row := range records[1:] {
		t.Row(row...)
	}
	cmd.Println(t.Render())
	cmd.Printf("%d rows × %d columns\n", len(records)-1, len(records[0]))
	return nil
}
