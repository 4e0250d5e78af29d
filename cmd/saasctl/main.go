package main

import (
	"fmt"
	"os"

	"saas-starter-backend/internal/config"
	"saas-starter-backend/internal/database"
	"saas-starter-backend/internal/database/models"
	"saas-starter-backend/internal/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err == nil {
		logrus.Debug("loaded environment from .env")
	}

	root := &cobra.Command{
		Use:   "saasctl",
		Short: "Developer CLI for the SaaS starter backend",
	}

	root.AddCommand(dbCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.LogLevel)
	return cfg, nil
}

func dbCmd() *cobra.Command {
	db := &cobra.Command{
		Use:   "db",
		Short: "Database schema operations",
	}

	push := &cobra.Command{
		Use:   "push",
		Short: "Sync the development database schema from the declared models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			conn, err := database.Connect(cfg.DatabaseURL, nil)
			if err != nil {
				return err
			}
			if err := database.Push(conn); err != nil {
				return err
			}

			logrus.Info("schema is in sync")
			return nil
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending versioned migrations (production path)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if err := database.Migrate(cfg.DatabaseURL); err != nil {
				return err
			}

			logrus.Info("migrations applied")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			version, dirty, err := database.MigrateStatus(cfg.DatabaseURL)
			if err != nil {
				return err
			}

			if version == 0 {
				fmt.Println("no migrations applied")
				return nil
			}
			fmt.Printf("version: %d dirty: %v\n", version, dirty)
			return nil
		},
	}

	db.AddCommand(push, migrate, status)
	return db
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed a demo organization with a few users",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			conn, err := database.Connect(cfg.DatabaseURL, nil)
			if err != nil {
				return err
			}
			if err := database.Push(conn); err != nil {
				return err
			}

			org := &models.Organization{
				Name:        "acme",
				DisplayName: "Acme Inc.",
			}
			if err := conn.FirstOrCreate(org, models.Organization{Name: "acme"}).Error; err != nil {
				return fmt.Errorf("seed organization: %w", err)
			}

			seedUsers := []models.User{
				{AuthProviderID: "user_seed_1", Email: "ada@acme.test", FirstName: "Ada", LastName: "Lovelace"},
				{AuthProviderID: "user_seed_2", Email: "grace@acme.test", FirstName: "Grace", LastName: "Hopper"},
				{AuthProviderID: "user_seed_3", Email: "alan@acme.test", FirstName: "Alan", LastName: "Turing"},
			}
			for i := range seedUsers {
				seedUsers[i].OrganizationID = &org.ID
				if err := conn.FirstOrCreate(&seedUsers[i], models.User{Email: seedUsers[i].Email}).Error; err != nil {
					return fmt.Errorf("seed user %s: %w", seedUsers[i].Email, err)
				}
			}

			logrus.WithField("organization", org.Name).Info("seed data ready")
			return nil
		},
	}
}
