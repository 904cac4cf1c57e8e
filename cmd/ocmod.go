package cmd

import (
	"github.com/ocscaffold/ocscaffold/template_generator"
	"github.com/spf13/cobra"
)

var ocmodCmd = &cobra.Command{
	Use:   "ocmod",
	Short: "Generate an OCMod modification manifest.",
	Long: `The 'ocmod' subcommand writes <output_path>/<code>.ocmod.xml with the modification
metadata and one example search/add operation on a platform file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		opts := readGeneratorOptions(cmd, map[string]string{
			"name":        "name",
			"code":        "code",
			"mod-version": "version",
			"author":      "author",
			"link":        "link",
		})
		opts.Gated = true

		_, err = runGenerator(cmd.Context(), rootDependencies, template_generator.NewOCModGenerator(), opts)
		return err
	},
}

func init() {
	ocmodCmd.Flags().String("name", "", "Modification name.")
	ocmodCmd.Flags().String("code", "", "Modification code, also the manifest file name.")
	ocmodCmd.Flags().String("mod-version", template_generator.DefaultManifestVersion, "Modification version.")
	ocmodCmd.Flags().String("author", "", "Modification author.")
	ocmodCmd.Flags().String("link", "", "Author or project link.")
	addGeneratorFlags(ocmodCmd)

	rootCmd.AddCommand(ocmodCmd)
}
