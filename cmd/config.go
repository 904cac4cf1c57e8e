package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ocscaffold/ocscaffold/config"
	"github.com/ocscaffold/ocscaffold/constants/lipgloss"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective settings.",
	Long: `The 'config' subcommand prints the settings after merging defaults, the
ocscaffold-config file, OCSCAFFOLD_* environment variables and flags, together with the
resolved output and source folders.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		return printConfig(rootDependencies.Out, rootDependencies.Config, output)
	},
}

func init() {
	configCmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml.")
	rootCmd.AddCommand(configCmd)
}

type settingsView struct {
	Workspace    string `json:"workspace" yaml:"workspace"`
	OutputPath   string `json:"output_path" yaml:"output_path"`
	OcSourcePath string `json:"oc_source_path" yaml:"oc_source_path"`
	Theme        string `json:"theme" yaml:"theme"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
	ConfigFile   string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	OutputRoot   string `json:"output_root,omitempty" yaml:"output_root,omitempty"`
	SourceRoot   string `json:"source_root,omitempty" yaml:"source_root,omitempty"`
}

func printConfig(w io.Writer, cfg *config.Config, output string) error {
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	view := settingsView{
		Workspace:    cfg.Workspace,
		OutputPath:   cfg.OutputPath,
		OcSourcePath: cfg.OcSourcePath,
		Theme:        cfg.Theme,
		LogLevel:     cfg.LogLevel,
		ConfigFile:   cfg.ConfigFileUsed,
	}
	view.OutputRoot, _ = cfg.OutputRoot()
	view.SourceRoot, _ = cfg.SourceRoot()

	switch output {
	case "json":
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(view)
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		fmt.Fprint(w, string(data))
		return nil
	}

	configFile := view.ConfigFile
	if configFile == "" {
		configFile = "(defaults)"
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Setting", "Value"},
		{"workspace", view.Workspace},
		{"output_path", view.OutputPath},
		{"oc_source_path", view.OcSourcePath},
		{"theme", view.Theme},
		{"log_level", view.LogLevel},
		{"config file", configFile},
	}).Srender()
	if err != nil {
		return fmt.Errorf("failed to render settings: %w", err)
	}

	fmt.Fprintln(w, lipgloss.Info.Render("Settings"))
	fmt.Fprintln(w, table)
	fmt.Fprintln(w, lipgloss.Gray.Render(fmt.Sprintf("Output folder: %s", view.OutputRoot)))
	fmt.Fprintln(w, lipgloss.Gray.Render(fmt.Sprintf("OpenCart source: %s", view.SourceRoot)))
	return nil
}
