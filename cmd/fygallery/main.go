// Main entry point for the desktop application
package main

import (
	"fmt"
	"os"

	"fygallery/internal/config"
	"fygallery/internal/logutils"
	"fygallery/internal/prefs"
	"fygallery/internal/service"
	"fygallery/internal/slideshow"
	"fygallery/internal/ui"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dbPath     string
		logLevel   string
		confined   bool
		autoplay   bool
	)
	cmd := &cobra.Command{
		Use:   "fygallery [source]",
		Short: "Browse grouped image collections",
		Long: `Opens a collection file (.json, .yaml), a directory of images, or the
built-in "sample" collection. Without a source the sample is shown.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if configPath != "" {
				cfg, err = config.LoadConfigFile(configPath)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("confined") {
				cfg.Viewer.CrossGroup = !confined
			}
			if cmd.Flags().Changed("autoplay") {
				cfg.Slideshow.Autoplay = autoplay
			}

			logger, closeLog, err := logutils.New(cfg.Log.Level, cfg.Log.File)
			if err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}
			defer closeLog()
			logFn := logutils.Func(logger)

			if dbPath == "" {
				if dbPath, err = cfg.StorageDir(); err != nil {
					return err
				}
			}
			db, err := prefs.NewDB(dbPath, prefs.LoggerFunc(logFn))
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logger.Error().Err(err).Msg("closing preferences database")
				}
			}()
			svc := service.NewService(db, logFn)

			source := service.SampleSource
			if len(args) == 1 {
				source = args[0]
			}
			c, err := svc.LoadCollection(source)
			if err != nil {
				return err
			}
			opts, err := service.ViewOptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			vm := service.NewViewManager(c, opts)
			if _, err := svc.RestoreSession(vm); err != nil {
				logger.Warn().Err(err).Msg("session not restored")
			}

			return ui.CreateApplication(vm, ui.Options{
				Source:         source,
				Service:        svc,
				Slideshow:      slideshow.NewManager(cfg.SlideshowInterval(), cfg.Slideshow.Autoplay),
				KeyMap:         opts.KeyMap,
				SwipeThreshold: cfg.Viewer.SwipeThreshold,
				Logger:         logFn,
			})
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: user config dir)")
	cmd.Flags().StringVar(&dbPath, "dbpath", "", "Directory of the preferences database")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().BoolVar(&confined, "confined", false, "Start with navigation confined to the current group")
	cmd.Flags().BoolVar(&autoplay, "autoplay", false, "Start the slideshow immediately")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
