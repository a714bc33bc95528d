package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"solemate/internal/repository/postgres"
	"solemate/internal/service"
)

var newAdminService = service.NewAdminService

func newCreateSuperuserCmd() *cobra.Command {
	var in service.SuperuserInput

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an active staff superuser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), e.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			// Superuser creation never touches image storage.
			svc := newAdminService(nil, postgres.NewUserPostgres(db), postgres.NewInventoryPostgres(db), postgres.NewSalePostgres(db))
			u, err := svc.CreateSuperuser(cmd.Context(), in)
			if errors.Is(err, service.ErrEmailTaken) {
				return fmt.Errorf("a user with email %q already exists", in.Email)
			}
			if err != nil {
				return err
			}

			e.log.Info("superuser created", "user_id", u.ID, "email", u.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created.\n", u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (required)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
