package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haneul-labs/toss-docs-mcp/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "toss-docs-mcp",
	Short: "Toss developer documentation search over MCP",
	Long: `toss-docs-mcp keeps a locally cached, searchable index of the Toss
developer documentation (앱인토스, TDS React Native, TDS Mobile) and serves
keyword search over MCP stdio.

Commands:
  serve   Start the MCP stdio server
  sync    Refresh the local documentation cache
  search  Search the cached documentation from the terminal
  icons   Search the packaged TDS icon catalog`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// initLogger writes to stderr; stdout carries the MCP protocol.
func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/toss-docs-mcp")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// TOSSDOCS_CACHE_DIR -> cache.dir
	viper.SetEnvPrefix("TOSSDOCS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars
	viper.BindEnv("cache.dir", "TOSSDOCS_CACHE_DIR")
	viper.BindEnv("collector.timeout", "TOSSDOCS_COLLECTOR_TIMEOUT")
	viper.BindEnv("collector.concurrency", "TOSSDOCS_COLLECTOR_CONCURRENCY")
	viper.BindEnv("collector.user_agent", "TOSSDOCS_COLLECTOR_USER_AGENT")
	viper.BindEnv("search.max_results", "TOSSDOCS_SEARCH_MAX_RESULTS")
	viper.BindEnv("mcp.name", "TOSSDOCS_MCP_NAME")
	viper.BindEnv("mcp.version", "TOSSDOCS_MCP_VERSION")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}
}
