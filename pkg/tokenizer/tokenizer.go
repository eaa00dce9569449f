// Package tokenizer estimates token counts for skill content.
//
// Two counters are provided behind one interface: an exact BPE counter
// backed by a tiktoken encoding, and a character-ratio heuristic. The
// backend is selected once at startup so the rest of the pipeline never
// branches on which is active.
package tokenizer

import (
	"golang.org/x/text/unicode/norm"

	"github.com/skillfoundry/skillcat/pkg/logger"
)

// Counter estimates how many tokens a text blob encodes to.
// Implementations must be deterministic: the same input always yields
// the same count.
type Counter interface {
	Count(text string) int
	Name() string
}

// Select returns the exact counter for the named tiktoken encoding.
// "heuristic" (or an empty name) forces the character heuristic, as does
// an encoding whose rank data cannot be loaded.
func Select(encoding string) Counter {
	if encoding == "" || encoding == "heuristic" {
		return Heuristic{}
	}
	e, err := NewExact(encoding)
	if err != nil {
		logger.Warn("Encoding unavailable, falling back to character heuristic", logger.String("encoding", encoding), logger.Err(err))
		return Heuristic{}
	}
	return e
}

// normalize puts text into NFC form so counts do not depend on how the
// author's editor composed accented characters.
func normalize(text string) string {
	return norm.NFC.String(text)
}
