package main

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lexcodex/tunecouncil/config"
	"github.com/lexcodex/tunecouncil/persistence"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past sessions from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			catalog, err := persistence.OpenSessionCatalog(cfg.CatalogPath)
			if err != nil {
				return err
			}
			defer catalog.Close()

			records, err := catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("No sessions recorded yet.")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("WHEN", "SESSION", "PLAYLIST", "ADDED", "FAILED")
			for _, rec := range records {
				t.Row(
					rec.CreatedAt.Local().Format(time.DateTime),
					rec.Stamp,
					rec.PlaylistID,
					strconv.Itoa(rec.Added),
					strconv.Itoa(rec.Failed),
				)
			}
			cmd.Println(t.Render())
			return nil
		},
	}
}
