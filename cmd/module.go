package cmd

import (
	"github.com/ocscaffold/ocscaffold/template_generator"
	"github.com/spf13/cobra"
)

var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Generate an OpenCart extension module.",
	Long: `The 'module' subcommand scaffolds an extension module under <output_path>/<name>.
Admin modules get a controller, an en-gb language file and a settings view; catalog
modules get a controller, a model, a language file and a storefront view. Values not
passed as flags are asked for interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		opts := readGeneratorOptions(cmd, map[string]string{
			"name":        "name",
			"type":        "type",
			"description": "description",
		})
		opts.Gated = true

		_, err = runGenerator(cmd.Context(), rootDependencies, template_generator.NewModuleGenerator(), opts)
		return err
	},
}

func init() {
	moduleCmd.Flags().String("name", "", "Module name, e.g. my_module.")
	moduleCmd.Flags().String("type", "", "Module type: Admin, Catalog or Both.")
	moduleCmd.Flags().String("description", "", "Module description.")
	addGeneratorFlags(moduleCmd)

	rootCmd.AddCommand(moduleCmd)
}
