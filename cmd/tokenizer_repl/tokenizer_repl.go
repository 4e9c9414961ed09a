package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	bpe "github.com/VillSnow/bpe-tokenizer"
	"github.com/VillSnow/bpe-tokenizer/corpus"
)

// A REPL for poking at a trained vocabulary.

func makeRepl[S bpe.Symbol](vocab *bpe.Vocab[S], split func(string) []S,
	join func([]S) string) func(string) {
	tokenizer := vocab.Snapshot()
	return func(input string) {
		seq := split(input)
		spans := tokenizer.Tokenize(seq)
		tokens := make(bpe.Tokens, len(spans))
		for i, span := range spans {
			tokens[i] = span.Token
		}
		fmt.Printf("%v\n", tokens)
		for _, segment := range tokenizer.Segment(seq) {
			fmt.Printf("|%s", join(segment))
		}
		fmt.Printf("\n")
	}
}

func main() {
	vocabPath := flag.String("vocab", "vocab.json",
		"trained vocabulary file")
	symbolsOpt := flag.String("symbols", "runes",
		"symbol unit the vocabulary was trained over "+
			"[runes, bytes, graphemes]")
	flag.Parse()

	in, err := os.Open(*vocabPath)
	if err != nil {
		log.Fatal(err)
	}
	var repl func(string)
	switch *symbolsOpt {
	case "runes":
		vocab, loadErr := bpe.ReadVocab(in, corpus.SplitRunes)
		if loadErr != nil {
			log.Fatal(loadErr)
		}
		encoder := bpe.NewTextEncoder(vocab)
		repl = func(input string) {
			tokens := encoder.Encode(input)
			fmt.Printf("%v\n", tokens)
			for _, segment := range encoder.Segment(input) {
				fmt.Printf("|%s", segment)
			}
			fmt.Printf("\n")
		}
	case "bytes":
		vocab, loadErr := bpe.ReadVocab(in, corpus.SplitByteAliases)
		if loadErr != nil {
			log.Fatal(loadErr)
		}
		repl = makeRepl(vocab, corpus.SplitBytes, corpus.JoinBytes)
	case "graphemes":
		vocab, loadErr := bpe.ReadVocab(in, corpus.SplitGraphemes)
		if loadErr != nil {
			log.Fatal(loadErr)
		}
		repl = makeRepl(vocab, corpus.SplitGraphemes, corpus.JoinGraphemes)
	default:
		log.Fatal("Invalid symbols specification")
	}
	in.Close()

	reader := bufio.NewReader(os.Stdin)
	// Provide a REPL
	for {
		fmt.Print(">>> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			log.Fatal(err)
		}
		// Remove trailing newline and replace \n with newline.
		input = strings.Replace(input[:len(input)-1], "\\n", "\n", -1)
		repl(input)
	}
}
