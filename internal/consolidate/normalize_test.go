package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Alice Anderson", "alice anderson"},
		{"CAROL CARTER", "carol carter"},
		{"  Carol   Carter ", "carol carter"},
		{"A. Anderson", "a anderson"},
		{"O'Brien, Pat", "obrien pat"},
		{"\uff2a\uff4f\uff53\u00e9 Nu\u00f1ez", "jos\u00e9 nu\u00f1ez"},
		{"STRASSE", "strasse"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalizeContact(t *testing.T) {
	assert.Equal(t, "bob.baker@example.com", NormalizeEmail("  Bob.Baker@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
	assert.Equal(t, "9055550102", NormalizePhone("905-555-0102"))
	assert.Equal(t, "9055550102", NormalizePhone("(905) 555 0102"))
	assert.Equal(t, "", NormalizePhone(""))
}
