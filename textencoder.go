package bpe

import (
	lru "github.com/hashicorp/golang-lru"
)

const ENCODER_LRU_SZ = 65536

// TextEncoder binds a rune-symbol vocabulary snapshot to plain strings: it
// encodes text to token ids, decodes ids back to text, and caches
// per-string tokenizations in an ARC cache.
//
// Encode represents fallback spans as UnknownToken, which Decode skips, so
// an encode/decode round trip drops symbols the vocabulary never saw. Use
// Segment when the exact input must be reconstructable.
type TextEncoder struct {
	Decoder   map[Token][]rune
	Cache     *lru.ARCCache
	LruHits   int
	LruMisses int
	tokenizer *Tokenizer[rune]
}

// NewTextEncoder compiles a snapshot of vocab into a TextEncoder. Later
// growth of vocab is not visible through it.
func NewTextEncoder(vocab *Vocab[rune]) *TextEncoder {
	decoder := make(map[Token][]rune, vocab.Size())
	for id, seq := range vocab.Tokens() {
		decoder[Token(id)] = seq
	}
	cache, _ := lru.NewARC(ENCODER_LRU_SZ)
	return &TextEncoder{
		Decoder:   decoder,
		Cache:     cache,
		tokenizer: vocab.Snapshot(),
	}
}

// Tokenizer returns the snapshot the encoder wraps.
func (encoder *TextEncoder) Tokenizer() *Tokenizer[rune] {
	return encoder.tokenizer
}

// Encode
// Tokenizes text and returns the ids of its spans. Spans covering symbols
// unseen at training time come back as UnknownToken.
func (encoder *TextEncoder) Encode(text string) Tokens {
	if lookup, ok := encoder.Cache.Get(text); ok {
		encoder.LruHits++
		return lookup.(Tokens)
	} else {
		encoder.LruMisses++
	}
	spans := encoder.tokenizer.Tokenize([]rune(text))
	tokens := make(Tokens, len(spans))
	for i, span := range spans {
		tokens[i] = span.Token
	}
	encoder.Cache.Add(text, tokens)
	return tokens
}

// Segment
// Tokenizes text and returns the spans as strings. Unlike Encode this is
// lossless: concatenating the result reproduces text exactly.
func (encoder *TextEncoder) Segment(text string) []string {
	parts := encoder.tokenizer.Segment([]rune(text))
	segments := make([]string, len(parts))
	for i := range parts {
		segments[i] = string(parts[i])
	}
	return segments
}

// Decode
// Maps ids back to text. Ids without a vocabulary entry, UnknownToken
// included, are skipped.
func (encoder *TextEncoder) Decode(tokens Tokens) string {
	runes := make([]rune, 0, len(tokens)*2)
	for _, token := range tokens {
		if seq, ok := encoder.Decoder[token]; ok {
			runes = append(runes, seq...)
		}
	}
	return string(runes)
}
