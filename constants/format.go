package constants

import (
	"path/filepath"
	"strings"
)

// Format identifies a source document convention.
type Format string

const (
	JDSweid       Format = "JD_SWEID"
	LittleCaesars Format = "LITTLE_CAESARS"
)

var builtinFormats = []Format{
	JDSweid,
	LittleCaesars,
}

func AsStringSlice() []string {
	result := make([]string, len(builtinFormats))
	for i, f := range builtinFormats {
		result[i] = string(f)
	}
	return result
}

// Canonicalize maps a user supplied format label onto a built-in format.
// Unknown labels are returned upper-cased with ok=false so callers can still
// look them up among custom token sets.
func Canonicalize(input string) (Format, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	normalized = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(normalized)
	normalized = strings.Join(strings.Fields(normalized), " ")

	synonyms := map[string]Format{
		"jd sweid":       JDSweid,
		"jdsweid":        JDSweid,
		"jds":            JDSweid,
		"sweid":          JDSweid,
		"type a":         JDSweid,
		"little caesars": LittleCaesars,
		"littlecaesars":  LittleCaesars,
		"lc":             LittleCaesars,
		"caesars":        LittleCaesars,
		"type b":         LittleCaesars,
	}
	if f, ok := synonyms[normalized]; ok {
		return f, true
	}
	for _, f := range builtinFormats {
		if normalized == strings.ToLower(strings.ReplaceAll(string(f), "_", " ")) {
			return f, true
		}
	}
	return Format(strings.ToUpper(strings.ReplaceAll(normalized, " ", "_"))), false
}

// DetectFromFilename guesses the format from a document file name such as
// "jdsweid.pdf" or "little_caesars-march.txt".
func DetectFromFilename(path string) (Format, bool) {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	base = strings.NewReplacer("-", "", "_", "", " ", "", ".", "").Replace(base)
	switch {
	case strings.Contains(base, "jdsweid"), strings.Contains(base, "sweid"):
		return JDSweid, true
	case strings.Contains(base, "littlecaesars"), strings.Contains(base, "caesars"):
		return LittleCaesars, true
	}
	return "", false
}
