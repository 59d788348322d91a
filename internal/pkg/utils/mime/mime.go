package mime

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// textByExt narrows content-sniffed "text/plain" for the formats documents are
// exported in.
var textByExt = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".txt":      "text/plain",
	".csv":      "text/csv",
	".json":     "application/json",
	".html":     "text/html",
}

// DetectMimeType sniffs content and refines plain text by filename extension,
// keeping any charset parameter the sniffer reported.
func DetectMimeType(content []byte, filename string) string {
	detected := mimetype.Detect(content).String()
	if !strings.HasPrefix(detected, "text/plain") {
		return detected
	}

	refined, ok := textByExt[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return detected
	}
	return strings.Replace(detected, "text/plain", refined, 1)
}
