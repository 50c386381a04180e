// Package cmd implements the recipes CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"philcali.me/foodrecipes/internal/backend"
	"philcali.me/foodrecipes/internal/config"
	"philcali.me/foodrecipes/internal/logger"
	"philcali.me/foodrecipes/internal/repository"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "recipes",
		Short: "Search a remote recipe API from the terminal",
		Long: "recipes pages through recipe search results and looks up single\n" +
			"recipes using either the recipe API or TheMealDB as a backend.",
		SilenceUsage: true,
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if !viper.GetBool("metrics") {
				return nil
			}
			return dumpMetrics()
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.recipes.yaml)")
	flags.String("backend", "", "remote backend (recipeapi, mealdb)")
	flags.String("base-url", "", "remote API base URL")
	flags.String("api-key", "", "remote API key")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("output", "table", "output format (table, json)")
	flags.Bool("metrics", false, "print request metrics to stderr on exit")

	cobra.CheckErr(viper.BindPFlag("recipe_api.backend", flags.Lookup("backend")))
	cobra.CheckErr(viper.BindPFlag("recipe_api.base_url", flags.Lookup("base-url")))
	cobra.CheckErr(viper.BindPFlag("recipe_api.api_key", flags.Lookup("api-key")))
	cobra.CheckErr(viper.BindPFlag("logging.level", flags.Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("output", flags.Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("metrics", flags.Lookup("metrics")))

	// Same variable names the Lambda reads.
	cobra.CheckErr(viper.BindEnv("recipe_api.backend", "RECIPE_BACKEND"))
	cobra.CheckErr(viper.BindEnv("recipe_api.base_url", "RECIPE_API_URL"))
	cobra.CheckErr(viper.BindEnv("recipe_api.api_key", "RECIPE_API_KEY"))
	cobra.CheckErr(viper.BindEnv("recipe_api.timeout", "RECIPE_API_TIMEOUT"))
	cobra.CheckErr(viper.BindEnv("recipe_api.page_size", "RECIPE_PAGE_SIZE"))
	cobra.CheckErr(viper.BindEnv("logging.level", "LOG_LEVEL"))
	cobra.CheckErr(viper.BindEnv("logging.format", "LOG_FORMAT"))

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(getCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".recipes")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func loadConfig() (*config.Config, error) {
	return config.Resolve(&config.Config{
		RecipeAPI: config.RecipeAPIConfig{
			Backend:  viper.GetString("recipe_api.backend"),
			BaseURL:  os.ExpandEnv(viper.GetString("recipe_api.base_url")),
			APIKey:   os.ExpandEnv(viper.GetString("recipe_api.api_key")),
			Timeout:  viper.GetDuration("recipe_api.timeout"),
			PageSize: viper.GetInt("recipe_api.page_size"),
			RateLimit: config.RateLimitConfig{
				PerSecond: viper.GetFloat64("recipe_api.rate_limit.per_second"),
				Burst:     viper.GetInt("recipe_api.rate_limit.burst"),
			},
		},
		Logging: config.LoggingConfig{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		},
	})
}

// newRepository wires a repository for one command from the loaded config.
func newRepository(search repository.SearchResultListener, recipe repository.RecipeResultListener) (*repository.RecipeRepository, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := backend.New(cfg.RecipeAPI, "foodrecipes-cli/1.0")
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	return repository.NewRecipeRepository(client, cfg.RecipeAPI.APIKey, search, recipe,
		repository.WithLogger(log),
		repository.WithPageSize(cfg.RecipeAPI.PageSize),
	), nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

// dumpMetrics writes the foodrecipes metric families in the Prometheus text
// format.
func dumpMetrics() error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "foodrecipes_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
