package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sacredverse/internal/config"
	"sacredverse/internal/logging"
	"sacredverse/internal/ui"
)

const Version = "0.1.0"

// cli carries the flags and the state PersistentPreRunE resolves for every
// subcommand.
type cli struct {
	configPath string
	verbose    bool
	ephemeral  bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:           "verse",
		Short:         "SacredVerse, one verse and a few kind deeds a day",
		Long:          "SacredVerse shows a daily verse with small good deeds to mark done, and tracks your streak and badges.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			return ui.Run(cmd.Context(), a)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or the user config dir)")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")
	cmd.PersistentFlags().BoolVar(&c.ephemeral, "ephemeral", false, "keep progress in memory only")

	cmd.AddCommand(
		newTodayCmd(c),
		newDoneCmd(c),
		newStatusCmd(c),
		newBadgesCmd(c),
	)
	return cmd
}

func (c *cli) setup() error {
	path := c.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogPath, c.verbose)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	logger.Debug("config loaded", zap.String("path", path), zap.String("db", cfg.DBPath))
	return nil
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
