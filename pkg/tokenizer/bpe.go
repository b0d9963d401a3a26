// Package tokenizer provides token-counting collaborators for the chunker.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used when none is named.
const DefaultEncoding = "cl100k_base"

// BPE counts tokens with a tiktoken BPE encoding. It is the measuring
// collaborator for token-budgeted chunking when a real model vocabulary is
// available.
type BPE struct {
	encoding *tiktoken.Tiktoken
}

// NewBPE loads the named encoding ("cl100k_base", "o200k_base", ...). An
// empty name selects DefaultEncoding.
func NewBPE(name string) (*BPE, error) {
	if name == "" {
		name = DefaultEncoding
	}
	encoding, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("loading encoding %q: %w", name, err)
	}
	return &BPE{encoding: encoding}, nil
}

// Count returns the number of BPE tokens in text.
func (b *BPE) Count(text string) (int, error) {
	return len(b.encoding.Encode(text, nil, nil)), nil
}
