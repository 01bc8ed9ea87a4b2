// Command remap migrates the legacy integer-keyed CSV extract into the
// UUID-keyed target schema, reclassifying platform account lifecycle state
// along the way. Without --generate it runs every selected pipeline in
// preview mode and prints the run report without writing output files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"remap/pkg/config"
	"remap/pkg/export"
)

var (
	configPath string
	generate   bool
	verbose    bool

	users            bool
	purchases        bool
	discountCodes    bool
	platformGroups   bool
	platformAccounts bool
	all              bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "remap",
	Short: "Migrate the legacy extract to the UUID-keyed target schema",
	Long: `remap rebuilds the legacy integer-keyed relational extract (users,
purchases, discount codes, platform groups, platform accounts) as a
UUID-keyed target schema. Foreign keys are translated through per-entity
identity maps with an explicit orphan policy, and each platform account's
lifecycle state (funded_status, current_phase, status) is reclassified
through a deterministic rule set.

Selected entities automatically pull in the upstream entities whose
identity maps they depend on.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	var entities []string
	if all {
		entities = export.AllEntities
	} else {
		if users {
			entities = append(entities, export.EntityUsers)
		}
		if discountCodes {
			entities = append(entities, export.EntityDiscounts)
		}
		if purchases {
			entities = append(entities, export.EntityPurchases)
		}
		if platformGroups {
			entities = append(entities, export.EntityGroups)
		}
		if platformAccounts {
			entities = append(entities, export.EntityAccounts)
		}
	}
	if len(entities) == 0 {
		return cmd.Help()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	exporter, err := export.New(cfg, logger, generate)
	if err != nil {
		return err
	}

	runErr := exporter.Run(cmd.Context(), entities)
	exporter.Report().Render(os.Stdout)
	if runErr != nil {
		return runErr
	}
	if !generate {
		fmt.Println("\npreview only; re-run with --generate to write output files")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "remap.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&generate, "generate", false, "write output files (default is preview only)")
	rootCmd.Flags().BoolVar(&users, "users", false, "export the users table")
	rootCmd.Flags().BoolVar(&purchases, "purchases", false, "export the purchases table")
	rootCmd.Flags().BoolVar(&discountCodes, "discount-codes", false, "export the discount codes table")
	rootCmd.Flags().BoolVar(&platformGroups, "platform-groups", false, "export the platform groups table")
	rootCmd.Flags().BoolVar(&platformAccounts, "platform-accounts", false, "export the platform accounts table")
	rootCmd.Flags().BoolVar(&all, "all", false, "export all tables")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
