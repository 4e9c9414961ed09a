// Package corpus turns raw text into the weighted words a bpe.Trainer
// consumes: reading corpus files, finding word boundaries, decomposing words
// into symbols, and collapsing duplicate words into frequency weights.
// Everything symbol- and text-specific lives here; the trainer itself never
// sees a string.
package corpus

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/edsrzf/mmap-go"

	bpe "github.com/VillSnow/bpe-tokenizer"
)

const SCAN_BUF_SZ = 64 * 1024
const SCAN_MAX_SZ = 16 * 1024 * 1024

// WordCount is one distinct word and the number of times it was seen.
type WordCount struct {
	Word string
	Freq int
}

// Counter accumulates word frequencies while remembering the order in which
// distinct words first appeared, so that feeding a trainer from it is
// deterministic for a given input order.
type Counter struct {
	counts map[string]int
	order  []string
	total  int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add records one occurrence of word. Empty words are ignored.
func (counter *Counter) Add(word string) {
	counter.AddN(word, 1)
}

// AddN records n occurrences of word.
func (counter *Counter) AddN(word string, n int) {
	if word == "" || n < 1 {
		return
	}
	if _, seen := counter.counts[word]; !seen {
		counter.order = append(counter.order, word)
	}
	counter.counts[word] += n
	counter.total += n
}

// Distinct returns the number of distinct words counted.
func (counter *Counter) Distinct() int {
	return len(counter.order)
}

// Total returns the number of occurrences counted, duplicates included.
func (counter *Counter) Total() int {
	return counter.total
}

// Words returns the counted words in first-seen order.
func (counter *Counter) Words() []WordCount {
	words := make([]WordCount, len(counter.order))
	for i, word := range counter.order {
		words[i] = WordCount{Word: word, Freq: counter.counts[word]}
	}
	return words
}

// Feed decomposes every counted word with split and hands it to the
// trainer, weighted by its count, in first-seen order.
func Feed[S bpe.Symbol](
	trainer *bpe.Trainer[S],
	counter *Counter,
	split func(string) []S,
) {
	for _, wc := range counter.Words() {
		trainer.AddWeighted(split(wc.Word), wc.Freq)
	}
}

// Lines feeds each non-empty line of data into the counter as one word.
func Lines(data []byte, counter *Counter) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, SCAN_BUF_SZ), SCAN_MAX_SZ)
	for scanner.Scan() {
		counter.Add(scanner.Text())
	}
	return scanner.Err()
}

// MapFile maps path read-only and returns its contents along with a release
// function, so multi-gigabyte corpora are not copied through the heap.
func MapFile(path string) ([]byte, func() error, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	fileMmap, mmapErr := mmap.Map(file, mmap.RDONLY, 0)
	if mmapErr != nil {
		file.Close()
		return nil, nil, mmapErr
	}
	release := func() error {
		unmapErr := fileMmap.Unmap()
		closeErr := file.Close()
		if unmapErr != nil {
			return unmapErr
		}
		return closeErr
	}
	return fileMmap, release, nil
}

// ReadCounter counts the number of bytes read through it, and every 10
// seconds, it prints a message reporting the number of bytes read so far.
type ReadCounter struct {
	Reader   io.Reader
	Total    uint64
	Last     time.Time
	Reported bool
	Path     string
	Size     uint64
}

func (rc *ReadCounter) Read(p []byte) (int, error) {
	n, err := rc.Reader.Read(p)
	rc.Total += uint64(n)
	if time.Now().Sub(rc.Last).Seconds() > 10 {
		rc.Reported = true
		rc.Last = time.Now()
		log.Print(fmt.Sprintf("Reading %s... %s / %s completed.",
			rc.Path, humanize.Bytes(rc.Total), humanize.Bytes(rc.Size)))
	}
	return n, err
}

// ReadFile reads path through a ReadCounter, logging progress on corpora
// large enough to take a while. Use MapFile instead when the file should
// stay out of the heap.
func ReadFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	stat, statErr := file.Stat()
	if statErr != nil {
		return nil, statErr
	}
	counter := &ReadCounter{
		Reader: bufio.NewReaderSize(file, SCAN_BUF_SZ),
		Last:   time.Now(),
		Path:   path,
		Size:   uint64(stat.Size()),
	}
	return io.ReadAll(counter)
}
