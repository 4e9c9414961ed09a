package bpe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scenarioTokenizer() *Tokenizer[rune] {
	trainer := NewTrainer[rune](Materialized)
	trainer.Add([]rune(scenarioWord))
	for {
		if _, err := trainer.MergeRound(2); err != nil {
			break
		}
	}
	return trainer.Vocab().Snapshot()
}

func TestTokenizer_GreedyLongestPrefix(t *testing.T) {
	tokenizer := scenarioTokenizer()

	// "ABCD" is one token even though "AB" and "CD" also exist.
	assert.Equal(t, tokenizer.Tokenize([]rune("ABCD")), []Span{
		{Start: 0, End: 4, Token: 7},
	})

	// With the tail missing, the match backs off to shorter entries.
	assert.Equal(t, tokenizer.Tokenize([]rune("ABC")), []Span{
		{Start: 0, End: 2, Token: 6},
		{Start: 2, End: 3, Token: 2},
	})
}

func TestTokenizer_UnknownFallback(t *testing.T) {
	tokenizer := scenarioTokenizer()
	spans := tokenizer.Tokenize([]rune("ABXCD"))
	assert.Equal(t, spans, []Span{
		{Start: 0, End: 2, Token: 6},
		{Start: 2, End: 3, Token: UnknownToken},
		{Start: 3, End: 5, Token: 5},
	})
}

func TestTokenizer_SpansCoverInput(t *testing.T) {
	tokenizer := scenarioTokenizer()
	inputs := []string{"", "ABCDCDABCDCDE", "XYZ", "AXBXCXDXE", "EEEE"}
	for _, input := range inputs {
		seq := []rune(input)
		spans := tokenizer.Tokenize(seq)
		pos := 0
		for _, span := range spans {
			assert.Equal(t, span.Start, pos, input)
			assert.Greater(t, span.End, span.Start, input)
			pos = span.End
		}
		assert.Equal(t, pos, len(seq), input)

		// Tokenizing the concatenation of the spans, which is the input
		// itself, reproduces the same spans.
		assert.Equal(t, tokenizer.Tokenize(seq), spans, input)
	}
}

func TestTokenizer_SegmentSharesBacking(t *testing.T) {
	tokenizer := scenarioTokenizer()
	seq := []rune("ABCDE")
	segments := tokenizer.Segment(seq)
	assert.Equal(t, len(segments), 2)
	assert.Equal(t, string(segments[0]), "ABCD")
	assert.Equal(t, string(segments[1]), "E")

	// Segments are views into seq, not copies.
	seq[0] = 'Z'
	assert.Equal(t, string(segments[0]), "ZBCD")
}

func TestTokenizer_ConcurrentReaders(t *testing.T) {
	vocab := NewVocab[rune]()
	vocab.Add([]rune("A"))
	vocab.Add([]rune("B"))
	vocab.Add([]rune("AB"))
	tokenizer := vocab.Snapshot()
	expected := tokenizer.Tokenize([]rune("ABAB"))

	var wg sync.WaitGroup
	results := make(chan []Span, 8*200)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				results <- tokenizer.Tokenize([]rune("ABAB"))
			}
		}()
	}
	// The source vocabulary keeps growing while the snapshot is shared.
	for i := 0; i < 200; i++ {
		vocab.Add([]rune{'C', rune(i)})
	}
	wg.Wait()
	close(results)
	for spans := range results {
		assert.Equal(t, spans, expected)
	}
}
