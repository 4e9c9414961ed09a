package bpe

import (
	"cmp"
	"errors"
)

// Token is the numeric id of a vocabulary entry. Ids are assigned in
// admission order, starting at zero, and are never reused or reassigned.
type Token uint32

type Tokens []Token

// UnknownToken marks a span produced by the unknown-symbol fallback. It is
// never the id of a vocabulary entry.
const UnknownToken = ^Token(0)

// Symbol constrains the atomic input unit. Any ordered scalar type works;
// the trainer and tokenizer never look inside a symbol, they only compare
// them.
type Symbol interface {
	cmp.Ordered
}

// TokenPair is a pair of adjacent token ids, used to key pair statistics
// during a merge round.
type TokenPair struct {
	Left  Token
	Right Token
}

// Strategy selects how a Trainer tracks the corpus segmentation between
// merge rounds. Both strategies implement the same merge-round contract;
// they differ in memory held between rounds and per-round cost.
type Strategy uint

const (
	// Materialized keeps per-word span markers across rounds and rewrites
	// only the spans touched by each merge.
	Materialized Strategy = iota
	// Recomputed keeps no per-word state and re-derives the segmentation
	// from a fresh vocabulary snapshot on every round.
	Recomputed
)

func (strategy Strategy) String() string {
	switch strategy {
	case Recomputed:
		return "recomputed"
	default:
		return "materialized"
	}
}

// ErrNoMergeCandidate is returned by MergeRound when no adjacent pair meets
// the frequency threshold, or when the corpus holds no words or no adjacent
// pairs at all. It signals that training has converged; it is not fatal.
var ErrNoMergeCandidate = errors.New(
	"bpe: no merge candidate meets the frequency threshold",
)

// MergeResult describes the outcome of one successful merge round.
type MergeResult[S Symbol] struct {
	Merged Token // id of the admitted token
	Seq    []S   // symbol sequence of the admitted token
	Left   Token // left constituent of the winning pair
	Right  Token // right constituent of the winning pair
	Freq   int   // aggregate weighted frequency of the winning pair
	Seeded int   // unigrams admitted; nonzero only for the seeding round
}
