package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	bpe "github.com/VillSnow/bpe-tokenizer"
)

func TestCounter(t *testing.T) {
	counter := NewCounter()
	counter.Add("b")
	counter.Add("a")
	counter.Add("b")
	counter.AddN("c", 3)
	counter.AddN("", 5)
	counter.AddN("d", 0)

	assert.Equal(t, counter.Distinct(), 3)
	assert.Equal(t, counter.Total(), 6)
	assert.Equal(t, counter.Words(), []WordCount{
		{Word: "b", Freq: 2},
		{Word: "a", Freq: 1},
		{Word: "c", Freq: 3},
	})
}

func TestCounter_Empty(t *testing.T) {
	counter := NewCounter()
	assert.Equal(t, counter.Distinct(), 0)
	assert.Equal(t, counter.Total(), 0)
	assert.Len(t, counter.Words(), 0)
}

func TestLines(t *testing.T) {
	counter := NewCounter()
	err := Lines([]byte("foo\n\nbar\nfoo\n"), counter)
	assert.NoError(t, err)
	assert.Equal(t, counter.Words(), []WordCount{
		{Word: "foo", Freq: 2},
		{Word: "bar", Freq: 1},
	})
}

func TestWords(t *testing.T) {
	counter := NewCounter()
	Words([]byte("Hello, world! Hello"), counter)
	assert.Equal(t, counter.Words(), []WordCount{
		{Word: "Hello", Freq: 2},
		{Word: ",", Freq: 1},
		{Word: "world", Freq: 1},
		{Word: "!", Freq: 1},
	})
}

func TestSentences(t *testing.T) {
	counter := NewCounter()
	err := Sentences([]byte("One sentence here. Another one follows!"),
		counter)
	assert.NoError(t, err)
	assert.Equal(t, counter.Distinct(), 2)
	words := counter.Words()
	assert.Contains(t, words[0].Word, "One sentence here")
	assert.Contains(t, words[1].Word, "Another one follows")
}

func TestFeed(t *testing.T) {
	counter := NewCounter()
	counter.AddN("ab", 2)
	counter.Add("ba")

	trainer := bpe.NewTrainer[rune](bpe.Materialized)
	Feed(trainer, counter, SplitRunes)

	seeded, err := trainer.MergeRound(1)
	assert.NoError(t, err)
	assert.Equal(t, seeded.Seeded, 2)

	// The duplicate count carries through as merge weight.
	result, err := trainer.MergeRound(1)
	assert.NoError(t, err)
	assert.Equal(t, string(result.Seq), "ab")
	assert.Equal(t, result.Freq, 2)
}

func TestMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	content := []byte("hello mapped world\n")
	assert.NoError(t, os.WriteFile(path, content, 0644))

	data, release, err := MapFile(path)
	assert.NoError(t, err)
	assert.Equal(t, data, content)
	assert.NoError(t, release())

	_, _, err = MapFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	content := []byte("hello buffered world\n")
	assert.NoError(t, os.WriteFile(path, content, 0644))

	data, err := ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, data, content)
}
