package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/registrar/internal/config"
	"github.com/zjrosen/registrar/internal/console"
	"github.com/zjrosen/registrar/internal/log"
	"github.com/zjrosen/registrar/internal/ui/menu"
	"github.com/zjrosen/registrar/internal/ui/styles"
	"github.com/zjrosen/registrar/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is where a default config is written when none is found.
const localConfigPath = ".registrar/config.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "registrar",
	Short: "Course registration from the terminal",
	Long: `Manage students, instructors, courses and enrollments from a terminal menu.

Data lives in comma-separated files under the data directory, or in a SQLite
database with --backend sqlite. Subcommands print JSON for scripting.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .registrar/config.yaml or ~/.config/registrar/config.yaml)")
	pf.StringP("data-dir", "d", "", "directory holding the data files")
	pf.String("backend", "", "storage backend: flatfile or sqlite")
	pf.Bool("debug", false, "log at debug level")
	pf.Bool("no-seed", false, "do not seed demo data into an empty catalog")

	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable reloading when the data files change on disk")
	rootCmd.Flags().Bool("plain", false, "use the line-oriented menu instead of the TUI")

	// Bind flags to viper
	_ = viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
	_ = viper.BindPFlag("storage.backend", pf.Lookup("backend"))
	_ = viper.BindPFlag("ui.plain", rootCmd.Flags().Lookup("plain"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("data_dir", defaults.DataDir)
	viper.SetDefault("seed_demo", defaults.SeedDemo)
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("auto_refresh_debounce", defaults.AutoRefreshDebounce)
	viper.SetDefault("storage.backend", defaults.Storage.Backend)
	viper.SetDefault("storage.sqlite_path", defaults.Storage.SQLitePath)
	viper.SetDefault("storage.cache_ttl", defaults.Storage.CacheTTL)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("ui.currency", defaults.UI.Currency)
	viper.SetDefault("ui.plain", defaults.UI.Plain)
	viper.SetDefault("ui.theme.muted", defaults.UI.Theme.Muted)
	viper.SetDefault("ui.theme.error", defaults.UI.Theme.Error)
	viper.SetDefault("ui.theme.success", defaults.UI.Theme.Success)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	// REGISTRAR_STORAGE_BACKEND=sqlite overrides storage.backend, etc.
	viper.SetEnvPrefix("REGISTRAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .registrar/config.yaml (current directory)
		// 2. ~/.config/registrar/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			viper.AddConfigPath(config.DefaultConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .registrar/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configPath returns the config file in use, or the local default.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}

// effectiveConfig applies the boolean override flags and validates.
func effectiveConfig(cmd *cobra.Command) (config.Config, error) {
	c := cfg
	if noSeed, _ := cmd.Flags().GetBool("no-seed"); noSeed {
		c.SeedDemo = false
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		c.Log.Level = "debug"
	}
	// Handle --no-auto-refresh flag (negated logic)
	if f := cmd.Flags().Lookup("no-auto-refresh"); f != nil && f.Value.String() == "true" {
		c.AutoRefresh = false
	}
	if err := config.Validate(c); err != nil {
		return c, err
	}
	return c, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	c, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(c, c.UI.Plain)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	rt, err := newRuntime(ctx, c)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	if c.UI.Plain {
		return console.New(rt.cmds, os.Stdin, os.Stdout).Run(ctx)
	}
	return runMenu(ctx, c, rt)
}

func runMenu(ctx context.Context, c config.Config, rt *runtime) error {
	styles.ApplyTheme(c.UI.Theme.Muted, c.UI.Theme.Error, c.UI.Theme.Success)

	opts := []menu.Option{menu.WithLogListener(log.NewListener(ctx))}

	if c.AutoRefresh {
		wcfg := rt.watchConfig()
		wcfg.DebounceDur = c.AutoRefreshDebounce
		w, err := watcher.New(wcfg)
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		changes, err := w.Start()
		if err != nil {
			// Keep running without auto-refresh.
			log.Warn(log.CatWatcher, "Auto-refresh disabled", "error", err.Error())
		} else {
			opts = append(opts, menu.WithAutoRefresh(changes, rt.invalidate))
		}
	}

	p := tea.NewProgram(menu.New(ctx, rt.cmds, opts...), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// setupLogging directs the global logger. Interactive TUI sessions never log
// to the terminal; warnings reach the user as toasts instead.
func setupLogging(c config.Config, toStderr bool) (func(), error) {
	cleanup := func() {}
	switch {
	case c.Log.File != "":
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0o750); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		closeFile, err := log.Init(c.Log.File)
		if err != nil {
			return nil, err
		}
		cleanup = closeFile
	case toStderr:
		log.InitWriter(os.Stderr)
	default:
		log.InitWriter(nil)
	}

	level := log.LevelWarn
	if c.Log.Level != "" {
		parsed, err := log.ParseLevel(c.Log.Level)
		if err != nil {
			cleanup()
			return nil, err
		}
		level = parsed
	}
	log.SetMinLevel(level)
	return cleanup, nil
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
