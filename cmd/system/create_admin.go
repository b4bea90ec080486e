package system

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/medbook_backend/internal/repo"
	"github.com/Alijeyrad/medbook_backend/internal/service/auth"
	"github.com/Alijeyrad/medbook_backend/pkg/database"
	"github.com/Alijeyrad/medbook_backend/pkg/util/password"
)

func NewCreateAdminCommand() *cobra.Command {
	var email, pw string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long: `Create an admin account that can log in to the booking dashboard.

If --password is omitted a random one is generated and printed once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			generated := false
			if pw == "" {
				if pw, err = password.Generate(20); err != nil {
					return err
				}
				generated = true
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
			defer cancel()

			if err := db.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			// Sessions and tokens are not needed to create an account.
			svc := auth.New(repo.New(db), nil, nil, password.NewHasher(password.FromCentralConfig(cfg.Password)), auth.Config{})
			admin, err := svc.CreateAdmin(ctx, email, pw)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Printf("Admin %s created (id %s).\n", admin.Email, admin.ID)
			if generated {
				fmt.Printf("Generated password: %s\n", pw)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&pw, "password", "", "admin password, at least 8 characters")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
