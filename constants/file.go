package constants

import "strings"

// Source types for ingested documents.
const (
	PDF  = "PDF"
	TEXT = "TXT"
)

// AllowedExtensions holds the default allowed file extensions for document ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToSourceType returns PDF or TXT for a supported extension, "" otherwise.
func MapExtToSourceType(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TEXT
	default:
		return ""
	}
}
