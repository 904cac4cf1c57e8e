package cmd

import "github.com/ocscaffold/ocscaffold/template_generator"

var twigCmd = newDocumentCommand(
	"twig",
	"Replace a .twig file with an admin or catalog layout.",
	`The 'twig' subcommand replaces the whole content of the given Twig file with the
admin settings form layout or the storefront card list layout.`,
	template_generator.NewTwigGenerator,
)

func init() {
	rootCmd.AddCommand(twigCmd)
}
