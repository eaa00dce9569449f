package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used for catalog estimates.
const DefaultEncoding = "cl100k_base"

// Exact counts tokens with a real BPE encoding. Encodings are stable per
// name, so the determinism contract of Counter holds.
type Exact struct {
	enc  *tiktoken.Tiktoken
	name string
}

// NewExact loads the named tiktoken encoding. Loading fails when the
// name is unknown or the rank data cannot be obtained; callers fall back
// to the character heuristic.
func NewExact(name string) (*Exact, error) {
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("loading encoding %s: %w", name, err)
	}
	return &Exact{enc: enc, name: name}, nil
}

// Count implements Counter.
func (e *Exact) Count(text string) int {
	return len(e.enc.Encode(normalize(text), nil, nil))
}

// Name implements Counter.
func (e *Exact) Name() string { return e.name }
