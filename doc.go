// Package bpe trains subword vocabularies over arbitrary symbol sequences by
// iterative pair merging, and compiles them into greedy longest-prefix
// tokenizers.
//
// The package is generic over the symbol type: runes, bytes, grapheme
// cluster strings, or any other ordered atomic unit. Splitting raw text into
// words and symbols is the caller's concern; the corpus subpackage provides
// the usual codecs and boundary rules for text.
//
// A typical session adds weighted words to a Trainer, calls MergeRound until
// it reports convergence or a budget runs out, then takes a Snapshot of the
// vocabulary to tokenize with. Snapshots are immutable and safe for
// concurrent use; the Trainer itself is single-threaded.
package bpe
