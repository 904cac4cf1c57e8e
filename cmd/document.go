package cmd

import (
	"path/filepath"

	"github.com/ocscaffold/ocscaffold/template_generator/contracts"
	"github.com/spf13/cobra"
)

// newDocumentCommand builds the twig and tpl commands, which differ only in the generator.
func newDocumentCommand(use, short, long string, newGenerator func(target string) contracts.IGenerator) *cobra.Command {
	documentCmd := &cobra.Command{
		Use:   use + " [file]",
		Short: short,
		Long:  long,
		Args:  cobra.MaximumNArgs(1),
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

			target := documentTarget(cmd, args, rootDependencies.Cwd)
			_, err = runGenerator(cmd.Context(), rootDependencies, newGenerator(target), opts)
			return err
		},
	}

	documentCmd.Flags().StringP("file", "f", "", "The document to replace (can also be passed as an argument).")
	documentCmd.Flags().String("name", "", "Template name (defaults to the file name).")
	documentCmd.Flags().String("type", "", "Template type: Admin or Catalog.")
	documentCmd.Flags().String("description", "", "Template description.")
	addGeneratorFlags(documentCmd)

	return documentCmd
}

// documentTarget is the --file flag or the first argument, made absolute against cwd.
func documentTarget(cmd *cobra.Command, args []string, cwd string) string {
	target, _ := cmd.Flags().GetString("file")
	if target == "" && len(args) > 0 {
		target = args[0]
	}
	if target == "" || filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(cwd, target)
}
