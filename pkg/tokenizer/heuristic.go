package tokenizer

// Heuristic estimates tokens as one per four bytes of NFC-normalized
// text, the conventional approximation for English prose.
type Heuristic struct{}

// Count implements Counter.
func (Heuristic) Count(text string) int {
	return len(normalize(text)) / 4
}

// Name implements Counter.
func (Heuristic) Name() string { return "heuristic" }
