package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"fygallery/internal/config"
	"fygallery/internal/gallery"
	"fygallery/internal/index"
	"fygallery/internal/logutils"
	"fygallery/internal/prefs"
	"fygallery/internal/scan"
	"fygallery/internal/service"
	"fygallery/internal/slideshow"
	"fygallery/internal/tui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPathFlag string
	dbPathFlag     string
	logLevelFlag   string

	cfg        *config.Config
	configPath string
	svc        *service.Service
	closeLog   func()

	startFlag     int
	confinedFlag  bool
	opsFlag       string
	outputFlag    string
	formatFlag    string
	patternsFlag  []string
	keepEmptyFlag bool
	forceFlag     bool
)

// ServiceOpener builds the service for a preferences directory. Tests inject
// their own to point at temporary databases.
type ServiceOpener func(dbDir string, logger func(string)) (*service.Service, error)

func openService(dbDir string, logger func(string)) (*service.Service, error) {
	db, err := prefs.NewDB(dbDir, prefs.LoggerFunc(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences DB: %w", err)
	}
	return service.NewService(db, logger), nil
}

// NewRootCmd creates the root command for the CLI application.
func NewRootCmd(open ServiceOpener) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "fygallery-cli",
		Short:         "FyGallery CLI - inspect and browse grouped image collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			configPath = configPathFlag
			if configPath == "" {
				if configPath, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if cfg, err = config.LoadConfigFile(configPath); err != nil {
				return err
			}
			if logLevelFlag != "" {
				cfg.Log.Level = logLevelFlag
			}
			logger, closer, err := logutils.New(cfg.Log.Level, cfg.Log.File)
			if err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}
			closeLog = closer

			dbDir := dbPathFlag
			if dbDir == "" {
				if dbDir, err = cfg.StorageDir(); err != nil {
					return err
				}
			}
			svc, err = open(dbDir, logutils.DebugFunc(logger))
			if err != nil {
				return fmt.Errorf("failed to initialize service: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			cleanup()
		},
	}

	// Inspect command
	inspectCmd := &cobra.Command{
		Use:   "inspect [source]",
		Short: "Show groups, their global ranges and every flattened entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := svc.LoadCollection(args[0])
			if err != nil {
				return err
			}
			m := index.Build(c)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Collection %s: %d groups, %d images\n", c.Name, len(c.Groups), m.TotalCount())
			for _, g := range c.Groups {
				r, err := m.RangeOf(g.ID)
				if err != nil {
					fmt.Fprintf(out, "  %s %q: empty\n", g.ID, g.DisplayName())
					continue
				}
				fmt.Fprintf(out, "  %s %q: %d images, global %d-%d\n", g.ID, g.DisplayName(), g.Len(), r.Start, r.End)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GLOBAL\tGROUP\tLOCAL\tIMAGE\tTITLE")
			for _, e := range m.Entries() {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", e.GlobalIndex, e.GroupID, e.LocalIndex, e.Image.ID, e.Image.Title)
			}
			return tw.Flush()
		},
	}
	rootCmd.AddCommand(inspectCmd)

	// Locate command
	locateCmd := &cobra.Command{
		Use:   "locate [source] [group] [local]",
		Short: "Print the global index of a group's local image",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := svc.LoadCollection(args[0])
			if err != nil {
				return err
			}
			local, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid local index %q: %w", args[2], err)
			}
			i, err := index.Build(c).GlobalIndexOf(args[1], local)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i)
			return nil
		},
	}
	rootCmd.AddCommand(locateCmd)

	// Range command
	rangeCmd := &cobra.Command{
		Use:   "range [source] [group]",
		Short: "Print the inclusive global range of a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := svc.LoadCollection(args[0])
			if err != nil {
				return err
			}
			r, err := index.Build(c).RangeOf(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", r.Start, r.End)
			return nil
		},
	}
	rootCmd.AddCommand(rangeCmd)

	// Walk command
	walkCmd := &cobra.Command{
		Use:   "walk [source]",
		Short: "Replay viewer operations and print the state after each one",
		Long: `Opens the viewer at --start and applies --ops in order.

Operations: next, prev, toggle, close, first, last, back, forward,
open:N (global index), jump:GROUP:LOCAL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := svc.LoadCollection(args[0])
			if err != nil {
				return err
			}
			opts, err := service.ViewOptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			opts.CrossGroup = !confinedFlag
			opts.TransitionDuration = 0
			vm := service.NewViewManager(c, opts)

			out := cmd.OutOrStdout()
			if startFlag >= 0 {
				if err := vm.Open(startFlag); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "%-14s %s\n", "start", describeState(vm))
			for _, op := range splitOps(opsFlag) {
				err := applyOp(vm, op)
				switch {
				case err == nil:
					fmt.Fprintf(out, "%-14s %s\n", op, describeState(vm))
				case service.IsRoutine(err):
					fmt.Fprintf(out, "%-14s refused: %v\n", op, err)
				default:
					return err
				}
			}
			return nil
		},
	}
	walkCmd.Flags().IntVar(&startFlag, "start", 0, "Global index to open first (negative: start closed)")
	walkCmd.Flags().BoolVar(&confinedFlag, "confined", false, "Wrap inside the current group instead of across groups")
	walkCmd.Flags().StringVar(&opsFlag, "ops", "", "Comma separated operations")
	rootCmd.AddCommand(walkCmd)

	// Info command
	infoCmd := &cobra.Command{
		Use:   "info [source] [global]",
		Short: "Show one entry and, for local files, its image metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := svc.LoadCollection(args[0])
			if err != nil {
				return err
			}
			global, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid global index %q: %w", args[1], err)
			}
			e, err := index.Build(c).ByGlobalIndex(global)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			group := e.GroupID
			if g, ok := c.Group(e.GroupID); ok {
				group = g.DisplayName()
			}
			fmt.Fprintf(out, "Global:      %d\n", e.GlobalIndex)
			fmt.Fprintf(out, "Group:       %s (%s)\n", e.GroupID, group)
			fmt.Fprintf(out, "Local:       %d\n", e.LocalIndex)
			fmt.Fprintf(out, "Image:       %s\n", e.Image.ID)
			fmt.Fprintf(out, "Title:       %s\n", e.Image.Title)
			fmt.Fprintf(out, "Description: %s\n", e.Image.Description)
			fmt.Fprintf(out, "URL:         %s\n", e.Image.URL)

			info, err := svc.Images.InfoFor(e.Image)
			if errors.Is(err, service.ErrNotLocal) {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Format:      %s\n", info.Format)
			fmt.Fprintf(out, "Dimensions:  %dx%d\n", info.Width, info.Height)
			fmt.Fprintf(out, "Size:        %d bytes\n", info.Size)
			fmt.Fprintf(out, "Modified:    %s\n", info.ModTime.Format("2006-01-02 15:04:05"))
			for k, v := range info.EXIFData {
				fmt.Fprintf(out, "EXIF %s: %s\n", k, v)
			}
			return nil
		},
	}
	rootCmd.AddCommand(infoCmd)

	// Scan command
	scanCmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Build a collection from a directory tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := scan.Collection(args[0], scan.Options{Patterns: patternsFlag, KeepEmpty: keepEmptyFlag})
			if err != nil {
				return err
			}
			return writeCollection(cmd, c)
		},
	}
	scanCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the collection to this .json/.yaml file instead of stdout")
	scanCmd.Flags().StringVar(&formatFlag, "format", "yaml", "Stdout format: json or yaml")
	scanCmd.Flags().StringSliceVar(&patternsFlag, "pattern", nil, "Image file glob (repeatable)")
	scanCmd.Flags().BoolVar(&keepEmptyFlag, "keep-empty", false, "Keep directories without images as empty groups")
	rootCmd.AddCommand(scanCmd)

	// Sample command
	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "Print or write the built-in sample collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCollection(cmd, gallery.Sample())
		},
	}
	sampleCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the collection to this .json/.yaml file instead of stdout")
	sampleCmd.Flags().StringVar(&formatFlag, "format", "yaml", "Stdout format: json or yaml")
	rootCmd.AddCommand(sampleCmd)

	// Browse command
	browseCmd := &cobra.Command{
		Use:   "browse [source]",
		Short: "Browse a collection in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := svc.LoadCollection(args[0])
			if err != nil {
				return err
			}
			opts, err := service.ViewOptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			vm := service.NewViewManager(c, opts)
			if _, err := svc.RestoreSession(vm); err != nil {
				return err
			}
			// Console logging would tear the full-screen UI.
			var tuiLogger func(string)
			if cfg.Log.File != "" {
				tuiLogger = svc.Logger
			}
			err = tui.Run(vm, tui.Options{
				SwipeThreshold: cfg.Viewer.SwipeThreshold,
				Slideshow:      slideshow.NewManager(cfg.SlideshowInterval(), cfg.Slideshow.Autoplay),
				Logger:         tuiLogger,
			})
			if err != nil {
				return err
			}
			return svc.SaveSession(vm, args[0])
		},
	}
	rootCmd.AddCommand(browseCmd)

	// Sessions commands
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored viewer sessions",
	}
	sessionsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := svc.ListSessions()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No stored sessions.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLLECTION\tGROUP\tIMAGE\tOPEN\tCROSS-GROUP\tUPDATED\tSOURCE")
			for _, s := range sessions {
				image := "-"
				if s.ImageID != "" {
					image = s.GroupID + "/" + s.ImageID
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%t\t%s\t%s\n",
					s.Collection, s.SelectedGroupID, image, s.ViewerOpen, s.CrossGroup,
					s.UpdatedAt.Local().Format("2006-01-02 15:04"), s.Source)
			}
			return tw.Flush()
		},
	}
	sessionsClearCmd := &cobra.Command{
		Use:   "clear [name]",
		Short: "Delete one stored session, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			n, err := svc.ClearSessions(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d session(s).\n", n)
			return nil
		},
	}
	sessionsCmd.AddCommand(sessionsListCmd, sessionsClearCmd)
	rootCmd.AddCommand(sessionsCmd)

	// Config commands
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration file",
	}
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", configPath)
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !forceFlag {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}
			if err := config.SaveConfig(config.Default(), configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
			return nil
		},
	}
	configInitCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "dbpath", "", "Directory of the preferences database")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (trace, debug, info, warn, error)")

	return rootCmd
}

// cleanup closes what PersistentPreRunE opened. Cobra skips post-run hooks
// when a command fails, so main calls it as well.
func cleanup() {
	if svc != nil && svc.Sessions != nil {
		svc.Sessions.Close()
	}
	svc = nil
	if closeLog != nil {
		closeLog()
		closeLog = nil
	}
}

func splitOps(s string) []string {
	var ops []string
	for _, op := range strings.Split(s, ",") {
		if op = strings.TrimSpace(op); op != "" {
			ops = append(ops, op)
		}
	}
	return ops
}

func applyOp(vm *service.ViewManager, op string) error {
	name, arg, _ := strings.Cut(op, ":")
	var err error
	switch name {
	case "next":
		_, err = vm.Next()
	case "prev":
		_, err = vm.Prev()
	case "first":
		_, err = vm.First()
	case "last":
		_, err = vm.Last()
	case "back":
		_, err = vm.Back()
	case "forward":
		_, err = vm.Forward()
	case "toggle":
		vm.ToggleCrossGroup()
	case "close":
		vm.Close()
	case "open":
		i, convErr := strconv.Atoi(arg)
		if convErr != nil {
			return fmt.Errorf("invalid op %q: %w", op, convErr)
		}
		err = vm.Open(i)
	case "jump":
		group, localStr, ok := strings.Cut(arg, ":")
		if !ok {
			return fmt.Errorf("invalid op %q: want jump:GROUP:LOCAL", op)
		}
		local, convErr := strconv.Atoi(localStr)
		if convErr != nil {
			return fmt.Errorf("invalid op %q: %w", op, convErr)
		}
		_, err = vm.JumpTo(group, local)
	default:
		return fmt.Errorf("unknown op %q", op)
	}
	return err
}

func describeState(vm *service.ViewManager) string {
	st := vm.State()
	mode := "cross-group"
	if !st.CrossGroupEnabled {
		mode = "confined"
	}
	e, err := vm.Current()
	if err != nil {
		return fmt.Sprintf("closed %s selected=%s", mode, vm.SelectedGroup())
	}
	return fmt.Sprintf("open global=%d %s[%d] %s %s selected=%s",
		e.GlobalIndex, e.GroupID, e.LocalIndex, e.Image.ID, mode, vm.SelectedGroup())
}

func writeCollection(cmd *cobra.Command, c *gallery.Collection) error {
	if outputFlag != "" {
		if err := gallery.SaveFile(outputFlag, c); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d groups, %d images to %s\n", len(c.Groups), c.ImageCount(), outputFlag)
		return nil
	}
	data, err := gallery.Encode(c, gallery.Format(formatFlag))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func main() {
	rootCmd := NewRootCmd(openService)
	err := rootCmd.Execute()
	cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
