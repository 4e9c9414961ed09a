package bpe

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteVocab serializes vocab as a JSON array of token strings, each
// rendered through join. The array comes out in admission order; reloading
// it in order reproduces the original ids, while reloading a permutation
// reassigns ids but still segments every input identically.
func WriteVocab[S Symbol](w io.Writer, vocab *Vocab[S], join func([]S) string) error {
	entries := make([]string, vocab.Size())
	for id, seq := range vocab.Tokens() {
		entries[id] = join(seq)
	}
	return json.NewEncoder(w).Encode(entries)
}

// ReadVocab rebuilds a vocabulary from WriteVocab output, decomposing each
// entry back into symbols with split. The codec must invert the one used to
// write; entries that split to nothing are rejected.
func ReadVocab[S Symbol](r io.Reader, split func(string) []S) (*Vocab[S], error) {
	var entries []string
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("bpe: reading vocabulary: %w", err)
	}
	vocab := NewVocab[S]()
	for idx, entry := range entries {
		seq := split(entry)
		if len(seq) == 0 {
			return nil, fmt.Errorf("bpe: vocabulary entry %d is empty", idx)
		}
		vocab.Add(seq)
	}
	return vocab, nil
}
