package structure_indexer

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/ocscaffold/ocscaffold/structure_indexer/models"
)

var versionDefineRegex = regexp.MustCompile(`define\s*\(\s*['"]VERSION['"]\s*,\s*['"]([^'"]+)['"]\s*\)`)

// legacyMarkers are checked in order when index.php carries no VERSION constant.
var legacyMarkers = []struct {
	path  string
	label string
}{
	{path: filepath.Join("system", "framework.php"), label: "2.x"},
	{path: filepath.Join("system", "startup.php"), label: "3.x"},
}

// DetectVersion guesses the OpenCart version of the tree at root. It is a heuristic:
// the VERSION define in index.php wins, then the legacy layout markers, otherwise "unknown".
func DetectVersion(root string) string {
	content, err := os.ReadFile(filepath.Join(root, "index.php"))
	if err != nil {
		return models.UnknownVersion
	}

	if match := versionDefineRegex.FindSubmatch(content); match != nil && len(match[1]) > 0 {
		return string(match[1])
	}

	for _, marker := range legacyMarkers {
		if fileExists(filepath.Join(root, marker.path)) {
			return marker.label
		}
	}

	return models.UnknownVersion
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
