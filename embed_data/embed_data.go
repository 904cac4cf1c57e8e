package embed_data

import "embed"

// Templates holds the boilerplate files rendered by the generators.
//
//go:embed templates
var Templates embed.FS

// Snippets holds the snippet catalogs, one JSON file per language.
//
//go:embed snippets/*.json
var Snippets embed.FS

//go:embed chat/welcome.md
var ChatWelcome []byte
