package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nova-maldives/the-hub/backend/internal/sheet"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Shift checklist history",
	}

	var search, shift string
	export := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export submitted shift checklists to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !strings.EqualFold(filepath.Ext(args[0]), ".xlsx") {
				return fmt.Errorf("output file must end with .xlsx")
			}

			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			records, err := repo.GetShiftHistory(search, shift)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			loc, err := time.LoadLocation(a.cfg.Clock.Timezone)
			if err != nil {
				return err
			}
			data, err := sheet.ExportShiftHistory(records, loc)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			a.logger.Info("班次历史已导出", "file", args[0], "records", len(records))
			return nil
		},
	}
	export.Flags().StringVar(&search, "search", "", "filter by agent name or date")
	export.Flags().StringVar(&shift, "shift", "", "filter by shift name")

	cmd.AddCommand(export)
	return cmd
}
