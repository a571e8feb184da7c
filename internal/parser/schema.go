package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
)

// BuildTokenSetJSONSchema returns the JSON Schema a custom token set file must satisfy.
func BuildTokenSetJSONSchema() map[string]any {
	token := map[string]any{"type": "string", "minLength": 1}
	tokenList := map[string]any{
		"type":     "array",
		"minItems": 1,
		"items":    token,
	}
	props := map[string]any{
		"format":              map[string]any{"type": "string", "pattern": `^[A-Za-z0-9_ -]+$`},
		"strategy":            map[string]any{"type": "string", "enum": []string{string(StrategySection), string(StrategyRecord)}},
		"section_header":      token,
		"summary_header":      token,
		"order_id_label":      token,
		"count_label":         token,
		"record_marker":       token,
		"header_order_label":  token,
		"header_seller_label": token,
		"phone_label":         token,
		"price_label":         token,
		"order_word":          token,
		"column_header":       token,
		"paid_tokens":         tokenList,
		"unpaid_tokens":       tokenList,
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"format", "strategy", "paid_tokens", "unpaid_tokens"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// LoadTokenSet parses and validates a token set document.
func LoadTokenSet(data []byte) (TokenSet, error) {
	if err := ValidateJSONAgainstSchema(BuildTokenSetJSONSchema(), data); err != nil {
		return TokenSet{}, common.NewAppError(common.CodeTokenSet, "schema validation failed", err)
	}
	var ts TokenSet
	if err := json.Unmarshal(data, &ts); err != nil {
		return TokenSet{}, common.NewAppError(common.CodeTokenSet, "decode token set", err)
	}
	ts.Format = canonicalFormatName(string(ts.Format))
	if err := ts.Validate(); err != nil {
		return TokenSet{}, err
	}
	return ts, nil
}

// LoadTokenSetsDir loads every *.json token set in dir, sorted by file name.
func LoadTokenSetsDir(dir string) ([]TokenSet, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	out := make([]TokenSet, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read token set %s: %w", path, err)
		}
		ts, err := LoadTokenSet(data)
		if err != nil {
			return nil, fmt.Errorf("load token set %s: %w", filepath.Base(path), err)
		}
		out = append(out, ts)
	}
	return out, nil
}

func canonicalFormatName(s string) constants.Format {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return constants.Format(s)
}
