package cmd

import "github.com/ocscaffold/ocscaffold/template_generator"

var tplCmd = newDocumentCommand(
	"tpl",
	"Replace a .tpl file with an admin or catalog layout.",
	`The 'tpl' subcommand replaces the whole content of the given TPL file (OpenCart 2.x
PHP templates) with the admin settings form layout or the storefront card list layout.`,
	template_generator.NewTplGenerator,
)

func init() {
	rootCmd.AddCommand(tplCmd)
}
