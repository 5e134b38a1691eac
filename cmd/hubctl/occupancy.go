package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nova-maldives/the-hub/backend/internal/sheet"
	"github.com/spf13/cobra"
)

func newOccupancyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "occupancy",
		Short: "Manage occupancy forecasts",
	}

	var dryRun bool
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import occupancy from a .csv, .xls or .xlsx file (Date, Percentage, Notes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := sheet.ImportOccupancy(f, filepath.Base(args[0]))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			if dryRun {
				for _, r := range records {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d%%\t%s\n", r.Date, r.Percentage, r.Notes)
				}
				return nil
			}

			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			if err := repo.ImportOccupancy(records); err != nil {
				return fmt.Errorf("save occupancy: %w", err)
			}
			a.logger.Info("入住率导入完成", "file", args[0], "records", len(records))
			return nil
		},
	}
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the parsed records without saving them")

	cmd.AddCommand(importCmd)
	return cmd
}
