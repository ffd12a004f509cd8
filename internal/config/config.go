// This file defines the configuration structure for the application.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port     int `mapstructure:"port"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Uploads struct {
		BooksDir      string `mapstructure:"books_dir"`
		CoversDir     string `mapstructure:"covers_dir"`
		TmpDir        string `mapstructure:"tmp_dir"`
		MaxUploadMB   int    `mapstructure:"max_upload_mb"`
		SweepInterval int    `mapstructure:"sweep_interval"` // minutes, 0 disables the tmp sweeper
	} `mapstructure:"uploads"`
	Import struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"import"`
	Pipeline struct {
		// Extracted metadata only overrides explicit user input when its
		// confidence exceeds this value.
		OverrideConfidence int  `mapstructure:"override_confidence"`
		RasterTimeoutSecs  int  `mapstructure:"raster_timeout_seconds"`
		AttemptFirstPage   bool `mapstructure:"attempt_first_page_raster"`
		ComposeCoverPage   bool `mapstructure:"compose_cover_page"`
	} `mapstructure:"pipeline"`
}

// Default returns a Config populated with the built-in defaults, without
// consulting a config file or the environment. Used by the CLI and tests.
func Default() *Config {
	cfg := &Config{Port: 8080}
	cfg.Database.Path = "./libra.db"
	cfg.Uploads.BooksDir = "./uploads/books"
	cfg.Uploads.CoversDir = "./uploads/covers"
	cfg.Uploads.TmpDir = "./uploads/tmp"
	cfg.Uploads.MaxUploadMB = 100
	cfg.Uploads.SweepInterval = 60
	cfg.Import.Path = "./import"
	cfg.Pipeline.OverrideConfidence = 30
	cfg.Pipeline.RasterTimeoutSecs = 30
	cfg.Pipeline.AttemptFirstPage = true
	return cfg
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// This tells Viper to look for environment variables with a "LIBRA_" prefix.
	// e.g., LIBRA_DATABASE_PATH will override the `database.path` key.
	viper.SetEnvPrefix("LIBRA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("port", 8080)
	viper.SetDefault("database.path", "./libra.db")
	viper.SetDefault("uploads.books_dir", "./uploads/books")
	viper.SetDefault("uploads.covers_dir", "./uploads/covers")
	viper.SetDefault("uploads.tmp_dir", "./uploads/tmp")
	viper.SetDefault("uploads.max_upload_mb", 100)
	viper.SetDefault("uploads.sweep_interval", 60)
	viper.SetDefault("import.enabled", false)
	viper.SetDefault("import.path", "./import")
	viper.SetDefault("pipeline.override_confidence", 30)
	viper.SetDefault("pipeline.raster_timeout_seconds", 30)
	viper.SetDefault("pipeline.attempt_first_page_raster", true)
	viper.SetDefault("pipeline.compose_cover_page", false)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
