package main

import (
	"fmt"
	"os"

	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/config"
	"github.com/agridirect/marketplace/internal/migration"
	"github.com/agridirect/marketplace/internal/observability"
	"github.com/agridirect/marketplace/internal/server"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agridirect",
		Short:         "Farm-to-consumer marketplace with quality attestation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		newMigrateCmd(),
		newVerifyFarmerCmd(),
		newSeedCmd(),
	)
	return root
}

// core is shared by every command that touches the database.
func core() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
	)
}

func serve() error {
	app := fx.New(
		core(),
		migration.Module,
		server.Module,
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
