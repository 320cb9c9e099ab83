package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/benjaminschreck/go-zipdoc/pkg/zipdoc"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	logLevel   string
	configFile string
	jsonOut    bool

	// appFs backs every file the CLI touches; tests swap in a MemMapFs
	appFs  afero.Fs = afero.NewOsFs()
	engine *zipdoc.Engine
)

var rootCmd = &cobra.Command{
	Use:   "zipdoc",
	Short: "Render and inspect zip-packaged office documents",
	Long: `zipdoc treats DOCX, XLSX, PPTX and ODF files as collections of named
entries. It can render a template by merging a data file into one entry,
list the entries of a document, and extract a single entry.

Configuration is read from zipdoc.yaml (current directory or $HOME/.zipdoc),
then from ZIPDOC_* environment variables, then from flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is ./zipdoc.yaml)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the engine shared by all commands.
func setup() error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	zipdoc.SetGlobalConfig(cfg)
	engine = zipdoc.NewWithOptions(zipdoc.WithConfig(cfg), zipdoc.WithFs(appFs))
	return nil
}

// loadConfig layers defaults, an optional config file and ZIPDOC_* variables.
func loadConfig(path string) (*zipdoc.Config, error) {
	v := viper.New()
	v.SetFs(appFs)

	defaults := zipdoc.DefaultConfig()
	v.SetDefault("cache_max_size", defaults.CacheMaxSize)
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("max_parallel_renders", defaults.MaxParallelRenders)
	v.SetDefault("max_entry_size", defaults.MaxEntrySize)

	v.SetEnvPrefix("ZIPDOC")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("zipdoc")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.zipdoc")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	// sizes may be written as "64MiB"
	size, err := zipdoc.ParseSize(v.GetString("max_entry_size"))
	if err != nil {
		return nil, fmt.Errorf("max_entry_size: %w", err)
	}
	v.Set("max_entry_size", size)

	cfg := zipdoc.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// printJSON outputs data as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
