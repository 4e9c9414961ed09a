package bpe

// Span is one tokenizer output unit: a half-open index range into the input
// sequence. Token is UnknownToken when the span came from the
// unknown-symbol fallback rather than a vocabulary entry.
type Span struct {
	Start int
	End   int
	Token Token
}

// Tokenizer segments symbol sequences by greedy longest-prefix match
// against a vocabulary snapshot. It is immutable once built and safe for
// concurrent use from any number of goroutines.
type Tokenizer[S Symbol] struct {
	root *symNode[S]
	size int
}

// VocabSize returns the number of sequences in the snapshot this tokenizer
// was compiled from.
func (tokenizer *Tokenizer[S]) VocabSize() int {
	return tokenizer.size
}

// Tokenize splits seq into spans. At each position the longest vocabulary
// sequence prefixing the remainder wins; when nothing matches, a length-1
// fallback span carrying UnknownToken is emitted, so the spans always cover
// seq exactly, in order, without gaps or overlap.
func (tokenizer *Tokenizer[S]) Tokenize(seq []S) []Span {
	spans := make([]Span, 0, len(seq)/2+1)
	pos := 0
	for pos < len(seq) {
		matched, id := tokenizer.root.longestMatch(seq[pos:])
		if matched == 0 {
			// Symbol never seen in training, emit it alone.
			matched, id = 1, UnknownToken
		}
		spans = append(spans, Span{
			Start: pos,
			End:   pos + matched,
			Token: id,
		})
		pos += matched
	}
	return spans
}

// Segment is Tokenize with the spans resolved to subslices of seq. The
// returned slices alias seq's backing array; no symbols are copied.
func (tokenizer *Tokenizer[S]) Segment(seq []S) [][]S {
	spans := tokenizer.Tokenize(seq)
	segments := make([][]S, len(spans))
	for i, span := range spans {
		segments[i] = seq[span.Start:span.End]
	}
	return segments
}
