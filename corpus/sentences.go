package corpus

import (
	"github.com/jdkato/prose/v2"
)

// Sentences feeds each sentence of data into the counter as one word, using
// prose's statistical sentence segmenter. Tagging, extraction, and prose's
// own tokenization are all disabled; only boundary detection runs.
func Sentences(data []byte, counter *Counter) error {
	doc, err := prose.NewDocument(
		string(data),
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithTokenization(false),
	)
	if err != nil {
		return err
	}
	for _, sentence := range doc.Sentences() {
		counter.Add(sentence.Text)
	}
	return nil
}
