package entity

import (
	"github.com/joseph-ayodele/campaign-ledger/constants"
)

// Warning is a non-fatal diagnostic surfaced alongside results.
// BlockIndex is -1 when the warning is not tied to a block.
type Warning struct {
	Kind       constants.WarningKind `json:"kind"`
	Document   string                `json:"document,omitempty"`
	OrderIDs   []string              `json:"order_ids,omitempty"`
	BlockIndex int                   `json:"block_index"`
	Message    string                `json:"message"`
}

// CountByKind tallies warnings per kind.
func CountByKind(ws []Warning) map[constants.WarningKind]int {
	out := make(map[constants.WarningKind]int)
	for _, w := range ws {
		out[w.Kind]++
	}
	return out
}
