package bpe

// Vocab is a growing set of admitted token sequences with a prefix index
// over them. Sequences are unique by value; admitting an existing sequence
// returns its original id. Entries are never removed or replaced, so any id
// handed out stays valid for the life of the vocabulary.
//
// A Vocab belongs to a single training session and is not safe for
// concurrent mutation. To tokenize, take a Snapshot; snapshots are
// independent immutable values.
type Vocab[S Symbol] struct {
	seqs  [][]S
	index *symNode[S]
}

func NewVocab[S Symbol]() *Vocab[S] {
	return &Vocab[S]{
		seqs:  make([][]S, 0),
		index: newSymTree[S](),
	}
}

// Add admits seq and returns its id, or the existing id if the sequence is
// already present. The symbols are copied, so the caller keeps ownership of
// seq.
func (vocab *Vocab[S]) Add(seq []S) Token {
	if id, ok := vocab.index.lookup(seq); ok {
		return id
	}
	id := Token(len(vocab.seqs))
	owned := make([]S, len(seq))
	copy(owned, seq)
	vocab.seqs = append(vocab.seqs, owned)
	vocab.index.insert(owned, id)
	return id
}

// Lookup returns the id admitted for exactly seq, if any.
func (vocab *Vocab[S]) Lookup(seq []S) (Token, bool) {
	return vocab.index.lookup(seq)
}

// Seq returns the symbol sequence admitted under id, or nil for ids the
// vocabulary never assigned. The returned slice is the vocabulary's own
// storage and must not be modified.
func (vocab *Vocab[S]) Seq(id Token) []S {
	if int64(id) >= int64(len(vocab.seqs)) {
		return nil
	}
	return vocab.seqs[id]
}

// Size returns the number of admitted sequences.
func (vocab *Vocab[S]) Size() int {
	return len(vocab.seqs)
}

// Tokens returns the admitted sequences indexed by id. The returned slice
// and its elements are the vocabulary's own storage and must not be
// modified.
func (vocab *Vocab[S]) Tokens() [][]S {
	return vocab.seqs
}

// Snapshot compiles the current contents into an immutable Tokenizer with
// its own prefix index. Sequences admitted after the call are not visible
// through it, and the vocabulary may keep growing while snapshots are in
// use on other goroutines.
func (vocab *Vocab[S]) Snapshot() *Tokenizer[S] {
	root := newSymTree[S]()
	for id, seq := range vocab.seqs {
		root.insert(seq, Token(id))
	}
	return &Tokenizer[S]{
		root: root,
		size: len(vocab.seqs),
	}
}
