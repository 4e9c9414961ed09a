package bpe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runeJoin(seq []rune) string    { return string(seq) }
func runeSplit(entry string) []rune { return []rune(entry) }

func TestVocabIO_RoundTrip(t *testing.T) {
	vocab := helloVocab()
	var buf bytes.Buffer
	assert.NoError(t, WriteVocab(&buf, vocab, runeJoin))
	assert.Equal(t, strings.TrimSpace(buf.String()),
		`["h","e","l","o","el","ell","hell","hello"]`)

	loaded, err := ReadVocab(&buf, runeSplit)
	assert.NoError(t, err)
	assert.Equal(t, loaded.Tokens(), vocab.Tokens())

	id, ok := loaded.Lookup([]rune("hello"))
	assert.True(t, ok)
	assert.Equal(t, id, Token(7))
}

func TestVocabIO_OrderIsIncidental(t *testing.T) {
	// A shuffled entry list yields different ids but the same
	// tokenizations.
	original, err := ReadVocab(
		strings.NewReader(`["h","e","l","o","el","ell","hell","hello"]`),
		runeSplit)
	assert.NoError(t, err)
	shuffled, err := ReadVocab(
		strings.NewReader(`["hello","l","ell","h","hell","o","e","el"]`),
		runeSplit)
	assert.NoError(t, err)

	input := []rune("hellhole")
	a := original.Snapshot().Segment(input)
	b := shuffled.Snapshot().Segment(input)
	assert.Equal(t, a, b)
}

func TestVocabIO_Rejects(t *testing.T) {
	_, err := ReadVocab(strings.NewReader(`{"not":"an array"}`), runeSplit)
	assert.Error(t, err)

	_, err = ReadVocab(strings.NewReader(`["a",""]`), runeSplit)
	assert.ErrorContains(t, err, "entry 1 is empty")
}
