package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file
type Config struct {
	Version      string `mapstructure:"version"`
	Workspace    string `mapstructure:"workspace"`
	OutputPath   string `mapstructure:"output_path"`
	OcSourcePath string `mapstructure:"oc_source_path"`
	Theme        string `mapstructure:"theme"`
	LogLevel     string `mapstructure:"log_level"`

	// ConfigFileUsed is the file the settings were read from, empty when running on defaults.
	ConfigFileUsed string `mapstructure:"-"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:      "0.3.0",
	OutputPath:   ".vscode/opencart-output",
	OcSourcePath: ".vscode/opencart-src",
	Theme:        "dracula",
	LogLevel:     "info",
}

const configFileName = "ocscaffold-config"

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs reads defaults, config file, environment and flags, in that order of
// increasing priority. It is called at the start of every command so edits to the
// config file are picked up without restarting an interactive session.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()

	setDefaults(v, cwd)
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		// files without a .json/.yaml/.yml extension are read as YAML, which also accepts JSON
		configType := GetConfigFileType(cfgFile)
		if configType == "" {
			configType = "yaml"
		}
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(cwd)

		// Support both YAML and JSON formats
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return nil, fmt.Errorf("error reading config file: %w", err)
				}
			}
		}
	}

	bindFlags(v, rootCmd)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	config.ConfigFileUsed = v.ConfigFileUsed()

	return &config, nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper, cwd string) {
	v.SetDefault("version", DefaultConfig.Version)
	v.SetDefault("workspace", cwd)
	v.SetDefault("output_path", DefaultConfig.OutputPath)
	v.SetDefault("oc_source_path", DefaultConfig.OcSourcePath)
	v.SetDefault("theme", DefaultConfig.Theme)
	v.SetDefault("log_level", DefaultConfig.LogLevel)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("workspace", "OCSCAFFOLD_WORKSPACE")
	_ = v.BindEnv("output_path", "OCSCAFFOLD_OUTPUT_PATH")
	_ = v.BindEnv("oc_source_path", "OCSCAFFOLD_OC_SOURCE_PATH")
	_ = v.BindEnv("theme", "OCSCAFFOLD_THEME")
	_ = v.BindEnv("log_level", "OCSCAFFOLD_LOG_LEVEL")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) {
	_ = v.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = v.BindPFlag("output_path", rootCmd.PersistentFlags().Lookup("output_path"))
	_ = v.BindPFlag("oc_source_path", rootCmd.PersistentFlags().Lookup("oc_source_path"))
	_ = v.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().StringP("workspace", "w", "", "Workspace folder that relative output and source paths are resolved against (default is the current directory).")
	rootCmd.PersistentFlags().String("output_path", DefaultConfig.OutputPath, "Folder where generated modules and OCMod files are written.")
	rootCmd.PersistentFlags().String("oc_source_path", DefaultConfig.OcSourcePath, "Folder holding a copy of the OpenCart source tree to index.")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set the highlighting theme for previews (e.g., 'dracula', 'monokai', 'github').")
	rootCmd.PersistentFlags().String("log_level", DefaultConfig.LogLevel, "Log level: debug, info, warn or error.")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// GetConfigFileType returns the type of the configuration file based on its extension,
// or "" when the extension is not one of json, yaml or yml.
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

// ResolvePath joins a configured path to the workspace. Absolute paths are used as-is.
func (c *Config) ResolvePath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	if strings.TrimSpace(c.Workspace) == "" {
		return "", app_errors.ErrConfigurationMissing
	}
	return filepath.Join(c.Workspace, p), nil
}

// OutputRoot is the folder generated artifacts are written under.
func (c *Config) OutputRoot() (string, error) {
	return c.ResolvePath(c.OutputPath)
}

// SourceRoot is the OpenCart tree the indexer scans.
func (c *Config) SourceRoot() (string, error) {
	return c.ResolvePath(c.OcSourcePath)
}
