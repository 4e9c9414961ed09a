package bpe

import "slices"

// Trainer owns one training session: the weighted corpus words and the
// vocabulary grown from them. Words are added up front; MergeRound then
// advances the vocabulary one admission at a time. A Trainer is
// single-threaded; snapshots taken from its vocabulary are not.
type Trainer[S Symbol] struct {
	vocab  *Vocab[S]
	corpus corpusModel[S]
}

// corpusModel tracks the working segmentation of the corpus between merge
// rounds. Two implementations exist: span markers updated in place, and
// stateless re-derivation from a vocabulary snapshot.
type corpusModel[S Symbol] interface {
	add(syms []S, freq int)
	empty() bool
	// seed admits every corpus symbol into vocab as a length-1 sequence,
	// in corpus order.
	seed(vocab *Vocab[S])
	// stats aggregates adjacent-pair frequencies over the current
	// segmentation.
	stats(vocab *Vocab[S]) pairTable
	// commit re-segments the occurrences of the winning pair as single
	// spans of the admitted token.
	commit(merged Token, mergedLen int, sites []mergeSite)
}

// mergeSite locates one countable occurrence of a pair: the word index and
// the span-start position of the pair's left token.
type mergeSite struct {
	word int
	pos  int
}

type pairStat struct {
	freq  int
	sites []mergeSite
}

type pairTable map[TokenPair]*pairStat

func (table pairTable) bump(pair TokenPair, freq int) *pairStat {
	stat := table[pair]
	if stat == nil {
		stat = &pairStat{}
		table[pair] = stat
	}
	stat.freq += freq
	return stat
}

// NewTrainer creates an empty training session using the given corpus
// strategy.
func NewTrainer[S Symbol](strategy Strategy) *Trainer[S] {
	var corpus corpusModel[S]
	switch strategy {
	case Recomputed:
		corpus = &snapshotCorpus[S]{}
	default:
		corpus = &spanCorpus[S]{}
	}
	return &Trainer[S]{
		vocab:  NewVocab[S](),
		corpus: corpus,
	}
}

// Add appends one corpus word with frequency weight 1. Empty words are
// discarded.
func (trainer *Trainer[S]) Add(syms []S) {
	trainer.AddWeighted(syms, 1)
}

// AddWeighted appends one corpus word counted freq times. Empty words are
// discarded and weights below 1 clamp to 1. The symbols are copied, so the
// caller may reuse syms. Adding the same word twice simply counts it twice.
//
// Words may keep arriving between merge rounds, but the seeding round runs
// only once: symbols it never admitted tokenize as unknown and never take
// part in a merge.
func (trainer *Trainer[S]) AddWeighted(syms []S, freq int) {
	if len(syms) == 0 {
		return
	}
	if freq < 1 {
		freq = 1
	}
	owned := make([]S, len(syms))
	copy(owned, syms)
	trainer.corpus.add(owned, freq)
}

// Vocab returns the vocabulary grown so far. It stays owned by the trainer;
// take a Snapshot of it to tokenize.
func (trainer *Trainer[S]) Vocab() *Vocab[S] {
	return trainer.vocab
}

// MergeRound advances the vocabulary by one step. The first call on a
// non-empty corpus is the seeding round: every distinct corpus symbol is
// admitted as a length-1 sequence and the result reports how many. Every
// later call selects the adjacent pair with the highest aggregate weighted
// frequency, admits the concatenation of its two sequences, and
// re-segments the pair's occurrences.
//
// Frequency ties break deterministically: the candidate whose concatenated
// sequence is lexicographically smallest wins, and identical concatenations
// fall back to the smaller (Left, Right) id pair.
//
// When no pair reaches minFreq, or the corpus is empty or has no adjacent
// pairs left, MergeRound returns ErrNoMergeCandidate. That is the normal
// end of training, not a failure. Thresholds below 1 clamp to 1.
func (trainer *Trainer[S]) MergeRound(minFreq int) (*MergeResult[S], error) {
	if minFreq < 1 {
		minFreq = 1
	}
	if trainer.corpus.empty() {
		return nil, ErrNoMergeCandidate
	}
	if trainer.vocab.Size() == 0 {
		trainer.corpus.seed(trainer.vocab)
		return &MergeResult[S]{
			Merged: UnknownToken,
			Seeded: trainer.vocab.Size(),
		}, nil
	}

	table := trainer.corpus.stats(trainer.vocab)
	winner, stat, merged := bestPair(trainer.vocab, table, minFreq)
	if stat == nil {
		return nil, ErrNoMergeCandidate
	}

	id := trainer.vocab.Add(merged)
	trainer.corpus.commit(id, len(merged), stat.sites)
	return &MergeResult[S]{
		Merged: id,
		Seq:    merged,
		Left:   winner.Left,
		Right:  winner.Right,
		Freq:   stat.freq,
	}, nil
}

// Train runs up to rounds merge rounds, the seeding round included, and
// returns the number of merges committed. It stops early when MergeRound
// reports ErrNoMergeCandidate and passes that through, so callers can tell
// convergence apart from an exhausted round budget.
func (trainer *Trainer[S]) Train(rounds, minFreq int) (int, error) {
	merges := 0
	for i := 0; i < rounds; i++ {
		result, err := trainer.MergeRound(minFreq)
		if err != nil {
			return merges, err
		}
		if result.Seeded == 0 {
			merges++
		}
	}
	return merges, nil
}

// bestPair scans the table for the pair with the highest aggregate
// frequency at or above minFreq. Ties on frequency go to the
// lexicographically smallest concatenated sequence; two distinct pairs can
// concatenate to the same sequence, so ids order the final leg. A nil stat
// means nothing qualified.
func bestPair[S Symbol](
	vocab *Vocab[S],
	table pairTable,
	minFreq int,
) (TokenPair, *pairStat, []S) {
	var (
		winner TokenPair
		best   *pairStat
		merged []S
	)
	for pair, stat := range table {
		if stat.freq < minFreq {
			continue
		}
		if best != nil && stat.freq < best.freq {
			continue
		}
		if best != nil && stat.freq == best.freq {
			seq := joinSeqs(vocab.Seq(pair.Left), vocab.Seq(pair.Right))
			order := slices.Compare(seq, merged)
			if order > 0 || (order == 0 && !lessPair(pair, winner)) {
				continue
			}
			winner, best, merged = pair, stat, seq
			continue
		}
		winner, best, merged = pair, stat,
			joinSeqs(vocab.Seq(pair.Left), vocab.Seq(pair.Right))
	}
	return winner, best, merged
}

func lessPair(a, b TokenPair) bool {
	if a.Left != b.Left {
		return a.Left < b.Left
	}
	return a.Right < b.Right
}

// joinSeqs concatenates two sequences into fresh storage, never aliasing
// either input.
func joinSeqs[S Symbol](left, right []S) []S {
	joined := make([]S, len(left)+len(right))
	copy(joined, left)
	copy(joined[len(left):], right)
	return joined
}

// spanWord is one corpus word under the Materialized strategy. spanLen and
// spanTok are meaningful only at span-start positions; markers interior to
// a span go stale and are never visited again.
type spanWord[S Symbol] struct {
	syms    []S
	freq    int
	spanLen []int
	spanTok []Token
}

type spanCorpus[S Symbol] struct {
	words []spanWord[S]
}

func (corpus *spanCorpus[S]) add(syms []S, freq int) {
	spanLen := make([]int, len(syms))
	for i := range spanLen {
		spanLen[i] = 1
	}
	corpus.words = append(corpus.words, spanWord[S]{
		syms:    syms,
		freq:    freq,
		spanLen: spanLen,
	})
}

func (corpus *spanCorpus[S]) empty() bool {
	return len(corpus.words) == 0
}

func (corpus *spanCorpus[S]) seed(vocab *Vocab[S]) {
	for w := range corpus.words {
		word := &corpus.words[w]
		word.spanTok = make([]Token, len(word.syms))
		for i, sym := range word.syms {
			word.spanTok[i] = vocab.Add([]S{sym})
		}
	}
}

func (corpus *spanCorpus[S]) stats(vocab *Vocab[S]) pairTable {
	table := make(pairTable)
	for w := range corpus.words {
		word := &corpus.words[w]
		if word.spanTok == nil {
			// The word arrived after the seeding round: it starts unigram
			// segmented, and symbols the seed never admitted stay
			// unmergeable.
			word.spanTok = make([]Token, len(word.syms))
			for i, sym := range word.syms {
				if id, ok := vocab.Lookup([]S{sym}); ok {
					word.spanTok[i] = id
				} else {
					word.spanTok[i] = UnknownToken
				}
			}
		}
		left := 0
		for {
			right := left + word.spanLen[left]
			if right >= len(word.syms) {
				break
			}
			if word.spanTok[left] != UnknownToken &&
				word.spanTok[right] != UnknownToken {
				pair := TokenPair{word.spanTok[left], word.spanTok[right]}
				stat := table.bump(pair, word.freq)
				stat.sites = append(stat.sites,
					mergeSite{word: w, pos: left})
			}
			left = right
		}
	}
	return table
}

// commit rewrites only the left span start of each counted occurrence. A
// site whose left start became interior to an earlier commit this round
// keeps its stale marker, which no later scan visits.
func (corpus *spanCorpus[S]) commit(merged Token, mergedLen int, sites []mergeSite) {
	for _, site := range sites {
		word := &corpus.words[site.word]
		word.spanLen[site.pos] = mergedLen
		word.spanTok[site.pos] = merged
	}
}

// flatWord is one corpus word under the Recomputed strategy, which keeps no
// segmentation state between rounds.
type flatWord[S Symbol] struct {
	syms []S
	freq int
}

type snapshotCorpus[S Symbol] struct {
	words []flatWord[S]
}

func (corpus *snapshotCorpus[S]) add(syms []S, freq int) {
	corpus.words = append(corpus.words, flatWord[S]{syms: syms, freq: freq})
}

func (corpus *snapshotCorpus[S]) empty() bool {
	return len(corpus.words) == 0
}

func (corpus *snapshotCorpus[S]) seed(vocab *Vocab[S]) {
	for _, word := range corpus.words {
		for _, sym := range word.syms {
			vocab.Add([]S{sym})
		}
	}
}

func (corpus *snapshotCorpus[S]) stats(vocab *Vocab[S]) pairTable {
	tokenizer := vocab.Snapshot()
	table := make(pairTable)
	for _, word := range corpus.words {
		spans := tokenizer.Tokenize(word.syms)
		for i := 1; i < len(spans); i++ {
			// Symbols the seeding round never saw tokenize as fallback
			// spans; pairs touching them are not merge candidates.
			if spans[i-1].Token == UnknownToken ||
				spans[i].Token == UnknownToken {
				continue
			}
			table.bump(TokenPair{spans[i-1].Token, spans[i].Token}, word.freq)
		}
	}
	return table
}

// commit is a no-op: the next stats call re-derives the segmentation from a
// snapshot that already contains the merged token.
func (corpus *snapshotCorpus[S]) commit(merged Token, mergedLen int, sites []mergeSite) {
}
