package cmd

import (
	"fmt"

	"github.com/ocscaffold/ocscaffold/constants/lipgloss"
	"github.com/ocscaffold/ocscaffold/template_generator"
	"github.com/spf13/cobra"
)

var snippetCmd = &cobra.Command{
	Use:   "snippet [file]",
	Short: "Insert a PHP, Twig, TPL or XML snippet into a file.",
	Long: `The 'snippet' subcommand inserts one of the bundled snippets into the given file,
before --line or at the end. Tab stops are filled with their default values.
Use --list to print the available snippets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return listSnippets(cmd)
		}

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}

		opts := readGeneratorOptions(cmd, map[string]string{
			"category": "category",
			"snippet":  "snippet",
		})
		line, _ := cmd.Flags().GetInt("line")

		target := documentTarget(cmd, args, rootDependencies.Cwd)
		_, err = runGenerator(cmd.Context(), rootDependencies, template_generator.NewSnippetGenerator(target, line), opts)
		return err
	},
}

func listSnippets(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	for _, category := range template_generator.SnippetCategories {
		snippets, err := template_generator.LoadSnippets(category)
		if err != nil {
			return err
		}
		names, err := template_generator.SnippetNames(category)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, lipgloss.Title.Render(category+" Snippets"))
		for _, name := range names {
			fmt.Fprintf(out, "  %-24s %s\n", name, lipgloss.Gray.Render(snippets[name].Description))
		}
	}
	return nil
}

func init() {
	snippetCmd.Flags().StringP("file", "f", "", "The document to insert into (can also be passed as an argument).")
	snippetCmd.Flags().Int("line", 0, "1-based line to insert before; 0 appends.")
	snippetCmd.Flags().String("category", "", "Snippet category: PHP, Twig, TPL or XML.")
	snippetCmd.Flags().String("snippet", "", "Snippet name.")
	snippetCmd.Flags().Bool("list", false, "List the available snippets.")
	addGeneratorFlags(snippetCmd)

	rootCmd.AddCommand(snippetCmd)
}
