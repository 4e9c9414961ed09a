package bpe

import (
	"bytes"
	"encoding/binary"
)

const (
	TokenSize = 4
)

// ToBin serializes tokens as little-endian uint32 values.
func (tokens *Tokens) ToBin() *[]byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(*tokens)*TokenSize))
	for idx := range *tokens {
		bs := (*tokens)[idx]
		binary.Write(buf, binary.LittleEndian, bs)
	}
	byt := buf.Bytes()
	return &byt
}

// TokensFromBin deserializes little-endian uint32 values back into Tokens.
// Trailing bytes that do not fill a whole token are dropped.
func TokensFromBin(bin *[]byte) *Tokens {
	tokens := make(Tokens, 0, len(*bin)/TokenSize)
	buf := bytes.NewReader(*bin)
	for {
		var token Token
		if err := binary.Read(buf, binary.LittleEndian, &token); err != nil {
			break
		}
		tokens = append(tokens, token)
	}
	return &tokens
}
