package main

import (
	"fmt"
	"os"

	"github.com/nova-maldives/the-hub/backend/internal/repository"
	"github.com/nova-maldives/the-hub/backend/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed reference data",
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "Insert the default task categories if they are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			if err := repo.EnsureTaskCategories(repository.DefaultTaskCategories); err != nil {
				return fmt.Errorf("ensure categories: %w", err)
			}
			a.logger.Info("默认任务类别已写入", "count", len(repository.DefaultTaskCategories))
			return nil
		},
	}

	var catalogFile string
	templates := &cobra.Command{
		Use:   "templates",
		Short: "Replace all checklist task templates with a YAML catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(catalogFile)
			if err != nil {
				return err
			}
			defer f.Close()

			catalog, err := seed.LoadCatalog(f)
			if err != nil {
				return err
			}

			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			if err := seed.ApplyCatalog(repo, catalog); err != nil {
				return err
			}
			a.logger.Info("任务模板已替换", "templates", len(catalog.TaskTemplates()), "categories", len(catalog.Categories))
			return nil
		},
	}
	templates.Flags().StringVarP(&catalogFile, "file", "f", "", "path to the catalog YAML file")
	_ = templates.MarkFlagRequired("file")

	admin := &cobra.Command{
		Use:   "admin",
		Short: "Create the initial administrator from INITIAL_ADMIN_* settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			created, err := seed.EnsureInitialAdmin(repo, seed.Admin{
				Username: a.cfg.InitialAdmin.Username,
				Password: a.cfg.InitialAdmin.Password,
				Name:     a.cfg.InitialAdmin.FullName,
				Email:    a.cfg.InitialAdmin.Email,
			})
			if err != nil {
				return err
			}
			if !created {
				a.logger.Info("初始管理员已存在", "username", a.cfg.InitialAdmin.Username)
				return nil
			}
			a.logger.Info("已创建初始管理员", "username", a.cfg.InitialAdmin.Username)
			return nil
		},
	}

	cmd.AddCommand(categories, templates, admin)
	return cmd
}
