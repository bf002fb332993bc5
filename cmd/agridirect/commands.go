package main

import (
	"context"
	"fmt"
	"time"

	"github.com/agridirect/marketplace/internal/attestation"
	"github.com/agridirect/marketplace/internal/events"
	"github.com/agridirect/marketplace/internal/farmer"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	"github.com/agridirect/marketplace/internal/migration"
	"github.com/agridirect/marketplace/internal/product"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"github.com/agridirect/marketplace/internal/seed"
	"github.com/agridirect/marketplace/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const commandTimeout = 30 * time.Second

// runOnce starts app, which does its work in fx.Invoke, then stops it.
func runOnce(opts ...fx.Option) error {
	app := fx.New(append([]fx.Option{core(), fx.NopLogger}, opts...)...)
	if err := app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runOnce(migration.Module); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newVerifyFarmerCmd() *cobra.Command {
	var status, notes string

	cmd := &cobra.Command{
		Use:   "verify-farmer <farmer-id>",
		Short: "Set a farmer's verification status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *farmerdomain.Response
			err := runOnce(
				migration.Module,
				events.Module,
				farmer.Module,
				fx.Invoke(func(svc farmerdomain.Service) error {
					ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
					defer cancel()

					resp, err := svc.SetVerification(ctx, farmerdomain.SetVerificationRequest{
						FarmerID: args[0],
						Status:   status,
						Notes:    notes,
					})
					result = resp
					return err
				}),
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "farmer %s is now %s\n", result.ID, result.VerificationStatus)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(farmerdomain.StatusVerified), "Verified or Rejected")
	cmd.Flags().StringVar(&notes, "notes", "", "admin notes stored with the decision")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a verified demo farmer with one attested listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *seed.Result
			err := runOnce(
				migration.Module,
				storage.Module,
				events.Module,
				farmer.Module,
				product.Module,
				attestation.Module,
				fx.Invoke(func(farmers farmerdomain.Service, products productdomain.Service) error {
					ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
					defer cancel()

					res, err := seed.EnsureDemoCatalog(ctx, farmers, products)
					result = res
					return err
				}),
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "demo farmer %s, product %s (created: %t)\n",
				result.FarmerID, result.ProductID, result.Created)
			return nil
		},
	}
}
