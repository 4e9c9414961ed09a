package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yargevad/filepathx"

	bpe "github.com/VillSnow/bpe-tokenizer"
	"github.com/VillSnow/bpe-tokenizer/corpus"
)

type PathInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	Dir     bool
}

// GlobTexts
// Given a directory path, recursively finds all `.txt` files, returning a
// slice of PathInfo.
func GlobTexts(dirPath string) (pathInfos []PathInfo, err error) {
	textPaths, err := filepathx.Glob(dirPath + "/**/*.txt")
	if err != nil {
		return nil, err
	}
	numMatches := len(textPaths)
	if numMatches == 0 {
		return nil, errors.New(fmt.Sprintf(
			"%s does not contain any .txt files", dirPath))
	}
	pathInfos = make([]PathInfo, numMatches)
	for matchIdx := range textPaths {
		currPath := textPaths[matchIdx]
		if stat, statErr := os.Stat(currPath); statErr != nil {
			return nil, statErr
		} else {
			pathInfos[matchIdx] = PathInfo{
				Path:    currPath,
				Size:    stat.Size(),
				ModTime: stat.ModTime(),
				Dir:     stat.IsDir(),
			}
		}
	}
	return pathInfos, nil
}

func SortPathInfoBySize(pathInfos []PathInfo, ascending bool) {
	if ascending {
		sort.Slice(pathInfos, func(i, j int) bool {
			return pathInfos[i].Size < pathInfos[j].Size
		})
	} else {
		sort.Slice(pathInfos, func(i, j int) bool {
			return pathInfos[i].Size > pathInfos[j].Size
		})
	}
}

func SortPathInfoByPath(pathInfos []PathInfo, ascending bool) {
	if ascending {
		sort.Slice(pathInfos, func(i, j int) bool {
			return pathInfos[i].Path < pathInfos[j].Path
		})
	} else {
		sort.Slice(pathInfos, func(i, j int) bool {
			return pathInfos[i].Path > pathInfos[j].Path
		})
	}
}

func ShufflePathInfos(pathInfos []PathInfo) {
	for i := len(pathInfos) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		pathInfos[i], pathInfos[j] = pathInfos[j], pathInfos[i]
	}
}

// ResolveTexts
// Given an input path, returns the PathInfo of the `.txt` files beneath it,
// or of the path itself if it points to a single file.
func ResolveTexts(inputPath string) ([]PathInfo, error) {
	stat, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return GlobTexts(inputPath)
	}
	return []PathInfo{{
		Path:    inputPath,
		Size:    stat.Size(),
		ModTime: stat.ModTime(),
		Dir:     false,
	}}, nil
}

// IngestTexts
// Reads every input file, optionally NFC-normalizes it, splits it at the
// requested boundary, and accumulates the words into a frequency counter.
func IngestTexts(paths []PathInfo, boundary string, normalize bool,
	useMmap bool) (*corpus.Counter, uint64, error) {
	counter := corpus.NewCounter()
	totalBytes := uint64(0)
	for _, pathInfo := range paths {
		var data []byte
		var release func() error
		var err error
		if useMmap {
			data, release, err = corpus.MapFile(pathInfo.Path)
		} else {
			data, err = corpus.ReadFile(pathInfo.Path)
		}
		if err != nil {
			return nil, totalBytes, err
		}
		totalBytes += uint64(len(data))
		if normalize {
			data = corpus.NFC(data)
		}
		switch boundary {
		case "lines":
			err = corpus.Lines(data, counter)
		case "sentences":
			err = corpus.Sentences(data, counter)
		default:
			corpus.Words(data, counter)
		}
		// The counter copies every word, so the mapping can be dropped as
		// soon as the file is consumed.
		if release != nil {
			if releaseErr := release(); releaseErr != nil && err == nil {
				err = releaseErr
			}
		}
		if err != nil {
			return nil, totalBytes, err
		}
	}
	return counter, totalBytes, nil
}

// TrainVocab
// Feeds the counted words into a fresh trainer and runs merge rounds until
// the budget is spent or training converges, logging each admission.
func TrainVocab[S bpe.Symbol](counter *corpus.Counter, strategy bpe.Strategy,
	rounds int, minFreq int, split func(string) []S,
	join func([]S) string) (*bpe.Vocab[S], error) {
	trainer := bpe.NewTrainer[S](strategy)
	corpus.Feed(trainer, counter, split)
	for round := 1; round <= rounds; round++ {
		result, err := trainer.MergeRound(minFreq)
		if errors.Is(err, bpe.ErrNoMergeCandidate) {
			log.Printf("Converged after %d rounds\n", round-1)
			break
		} else if err != nil {
			return nil, err
		}
		if result.Seeded > 0 {
			log.Printf("Seeded %d symbols\n", result.Seeded)
		} else {
			log.Printf("Round %d: merged %q (freq %d, vocab %d)\n",
				round, join(result.Seq), result.Freq,
				trainer.Vocab().Size())
		}
	}
	return trainer.Vocab(), nil
}

// SaveVocab
// Writes the vocabulary to path as JSON, rendering each token with join.
func SaveVocab[S bpe.Symbol](path string, vocab *bpe.Vocab[S],
	join func([]S) string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	writeErr := bpe.WriteVocab(out, vocab, join)
	closeErr := out.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

// EncodeTexts
// Re-reads the input files line by line, encodes them with the trained
// vocabulary, and appends the token ids to outPath as little-endian
// uint32s.
func EncodeTexts(paths []PathInfo, vocab *bpe.Vocab[rune],
	outPath string) error {
	encoder := bpe.NewTextEncoder(vocab)
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(out)
	totalTokens := uint64(0)
	for _, pathInfo := range paths {
		data, readErr := corpus.ReadFile(pathInfo.Path)
		if readErr != nil {
			out.Close()
			return readErr
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, corpus.SCAN_BUF_SZ), corpus.SCAN_MAX_SZ)
		for scanner.Scan() {
			tokens := encoder.Encode(scanner.Text() + "\n")
			totalTokens += uint64(len(tokens))
			if _, writeErr := writer.Write(*tokens.ToBin()); writeErr != nil {
				out.Close()
				return writeErr
			}
		}
		if scanErr := scanner.Err(); scanErr != nil {
			out.Close()
			return scanErr
		}
	}
	if flushErr := writer.Flush(); flushErr != nil {
		out.Close()
		return flushErr
	}
	log.Printf("Encoded %s tokens to %s (cache hits: %d, misses: %d)\n",
		humanize.Comma(int64(totalTokens)), outPath,
		encoder.LruHits, encoder.LruMisses)
	return out.Close()
}

func main() {
	inputPath := flag.String("input", "",
		"input directory of .txt corpus files, or a single file")
	outputFile := flag.String("output", "vocab.json",
		"vocabulary output file")
	rounds := flag.Int("rounds", 1024,
		"maximum merge rounds, the seeding round included")
	minFreq := flag.Int("min_freq", 2,
		"minimum aggregate pair frequency for a merge")
	strategyOpt := flag.String("strategy", "materialized",
		"corpus tracking strategy [materialized, recomputed]")
	symbolsOpt := flag.String("symbols", "runes",
		"symbol unit to train over [runes, bytes, graphemes]")
	boundaryOpt := flag.String("boundary", "words",
		"word boundary rule [words, lines, sentences]")
	nfcBool := flag.Bool("nfc", false,
		"normalize input to NFC before splitting")
	mmapBool := flag.Bool("mmap", false,
		"mmap input files instead of buffered reads")
	reorderPaths := flag.String("reorder", "name_ascending",
		"reorder input files to specification [size_ascending, "+
			"size_descending, name_ascending, name_descending, shuffle, "+
			"none]")
	encodeFile := flag.String("encode", "",
		"also encode the corpus into this binary token file "+
			"(runes symbols only)")
	flag.Parse()
	if *inputPath == "" {
		flag.Usage()
		log.Fatal("Must provide -input")
	}
	if *reorderPaths != "size_ascending" &&
		*reorderPaths != "size_descending" &&
		*reorderPaths != "name_ascending" &&
		*reorderPaths != "name_descending" &&
		*reorderPaths != "shuffle" &&
		*reorderPaths != "none" {
		log.Fatal("Invalid reorder specification")
	}
	if *boundaryOpt != "words" && *boundaryOpt != "lines" &&
		*boundaryOpt != "sentences" {
		log.Fatal("Invalid boundary specification")
	}
	var strategy bpe.Strategy
	switch *strategyOpt {
	case "materialized":
		strategy = bpe.Materialized
	case "recomputed":
		strategy = bpe.Recomputed
	default:
		log.Fatal("Invalid strategy specification")
	}
	if *encodeFile != "" && *symbolsOpt != "runes" {
		log.Fatal("-encode requires -symbols runes")
	}

	paths, err := ResolveTexts(*inputPath)
	if err != nil {
		log.Fatal(err)
	}
	switch *reorderPaths {
	case "size_ascending":
		SortPathInfoBySize(paths, true)
	case "size_descending":
		SortPathInfoBySize(paths, false)
	case "name_ascending":
		SortPathInfoByPath(paths, true)
	case "name_descending":
		SortPathInfoByPath(paths, false)
	case "shuffle":
		ShufflePathInfos(paths)
	}

	begin := time.Now()
	counter, totalBytes, err := IngestTexts(paths, *boundaryOpt, *nfcBool,
		*mmapBool)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Ingested %d files, %s: %s words, %s distinct\n",
		len(paths), humanize.Bytes(totalBytes),
		humanize.Comma(int64(counter.Total())),
		humanize.Comma(int64(counter.Distinct())))

	switch *symbolsOpt {
	case "runes":
		vocab, trainErr := TrainVocab[rune](counter, strategy, *rounds,
			*minFreq, corpus.SplitRunes, corpus.JoinRunes)
		if trainErr != nil {
			log.Fatal(trainErr)
		}
		if saveErr := SaveVocab(*outputFile, vocab,
			corpus.JoinRunes); saveErr != nil {
			log.Fatal(saveErr)
		}
		if *encodeFile != "" {
			if encodeErr := EncodeTexts(paths, vocab,
				*encodeFile); encodeErr != nil {
				log.Fatal(encodeErr)
			}
		}
	case "bytes":
		vocab, trainErr := TrainVocab[byte](counter, strategy, *rounds,
			*minFreq, corpus.SplitBytes, corpus.JoinBytes)
		if trainErr != nil {
			log.Fatal(trainErr)
		}
		if saveErr := SaveVocab(*outputFile, vocab,
			corpus.JoinBytes); saveErr != nil {
			log.Fatal(saveErr)
		}
	case "graphemes":
		vocab, trainErr := TrainVocab[string](counter, strategy, *rounds,
			*minFreq, corpus.SplitGraphemes, corpus.JoinGraphemes)
		if trainErr != nil {
			log.Fatal(trainErr)
		}
		if saveErr := SaveVocab(*outputFile, vocab,
			corpus.JoinGraphemes); saveErr != nil {
			log.Fatal(saveErr)
		}
	default:
		log.Fatal("Invalid symbols specification")
	}
	duration := time.Since(begin).Seconds()
	log.Printf("Trained %s in %0.2fs\n", *outputFile, duration)
}
