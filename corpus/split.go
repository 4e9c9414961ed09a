package corpus

import (
	"strings"

	"github.com/clipperhouse/uax29/graphemes"
	"github.com/clipperhouse/uax29/words"
	"golang.org/x/text/unicode/norm"
)

// Words feeds every word of data into the counter, using Unicode UAX #29
// word boundaries. Whitespace-only segments between words are skipped.
func Words(data []byte, counter *Counter) {
	for _, segment := range words.SegmentAll(data) {
		word := string(segment)
		if strings.TrimSpace(word) == "" {
			continue
		}
		counter.Add(word)
	}
}

// NFC returns data normalized to Unicode NFC. Normalization belongs to the
// corpus supplier: the trainer only ever compares the symbols it is given.
func NFC(data []byte) []byte {
	return norm.NFC.Bytes(data)
}

// SplitRunes decomposes a word into rune symbols.
func SplitRunes(word string) []rune {
	return []rune(word)
}

// JoinRunes reassembles rune symbols into a string.
func JoinRunes(seq []rune) string {
	return string(seq)
}

// SplitGraphemes decomposes a word into grapheme cluster symbols, so
// combining sequences and emoji survive training as single units.
func SplitGraphemes(word string) []string {
	segments := graphemes.SegmentAll([]byte(word))
	seq := make([]string, len(segments))
	for i, segment := range segments {
		seq[i] = string(segment)
	}
	return seq
}

// JoinGraphemes reassembles grapheme cluster symbols into a string.
func JoinGraphemes(seq []string) string {
	return strings.Join(seq, "")
}

// Byte symbols print and persist through a rune alias table: every byte maps
// to a distinct printable rune, the scheme byte-level GPT vocabularies use,
// so byte vocabularies survive JSON and terminals unharmed.
var (
	byteToRune [256]rune
	runeToByte map[rune]byte
)

func init() {
	bytesUnicodeMap := make(map[byte]rune)
	for b := uint8('!'); b < uint8('~')+1; b++ {
		bytesUnicodeMap[b] = rune(b)
	}
	for b := uint8('¡'); b < uint8('¬')+1; b++ {
		bytesUnicodeMap[b] = rune(b)
	}
	for b := uint16('®'); b < uint16('ÿ')+1; b++ {
		bytesUnicodeMap[byte(b)] = rune(b)
	}
	runeToByte = make(map[rune]byte, 256)
	uct := 0
	for b := 0; b < 256; b++ {
		r, ok := bytesUnicodeMap[uint8(b)]
		if !ok {
			r = rune(256 + uct)
			uct += 1
		}
		byteToRune[b] = r
		runeToByte[r] = uint8(b)
	}
}

// SplitBytes decomposes a word into raw byte symbols.
func SplitBytes(word string) []byte {
	return []byte(word)
}

// JoinBytes renders byte symbols through the alias table. Its inverse is
// SplitByteAliases, not SplitBytes.
func JoinBytes(seq []byte) string {
	aliased := make([]rune, len(seq))
	for i, b := range seq {
		aliased[i] = byteToRune[b]
	}
	return string(aliased)
}

// SplitByteAliases reverses JoinBytes when loading a persisted byte
// vocabulary. Runes outside the alias table are dropped.
func SplitByteAliases(entry string) []byte {
	seq := make([]byte, 0, len(entry))
	for _, r := range entry {
		if b, ok := runeToByte[r]; ok {
			seq = append(seq, b)
		}
	}
	return seq
}
