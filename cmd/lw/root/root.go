package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/config"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/logging"
	"github.com/Bladed3d/lightwalker-mvp-sub003/internal/ui"
)

const Version = "0.1.0"

var (
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "lw",
	Short:         "Lightwalker — daily practice from the people you admire",
	Long:          "Lightwalker builds a daily schedule of small practices drawn from chosen role models and tracks how you grow into them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c

		l, err := logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default $LIGHTWALKER_CONFIG or ~/.lightwalker.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(
		newSeedCmd(),
		newCatalogCmd(),
		newTodayCmd(),
		newWeekCmd(),
		newAddCmd(),
		newDoCmd(),
		newUndoCmd(),
		newMoveCmd(),
		newEditCmd(),
		newRmCmd(),
		newCustomizeCmd(),
		newResetCmd(),
		newMaterializeCmd(),
		newStateCmd(),
		newBoardCmd(),
		newDBCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
