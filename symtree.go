package bpe

import (
	"fmt"
	"strings"
)

type symNode[S Symbol] struct {
	sym       S                 // The symbol this node represents.
	token     Token             // Id of the sequence ending here, if terminal.
	terminal  bool              // If this node is an absolute terminal node.
	childs    map[S]*symNode[S] // The child nodes.
	childsArr *[]*symNode[S]    // The child nodes in an array, for precedence
}

func newSymTree[S Symbol]() *symNode[S] {
	return &symNode[S]{
		token:  UnknownToken,
		childs: make(map[S]*symNode[S], 0),
	}
}

func (root *symNode[S]) evaluate(node *symNode[S], s S) (*symNode[S], bool) {
	// If the node has an array of children, use that. The array exists if the
	// node has less than 10 children, and is used to speed up the evaluation
	// of the node.
	if node.childsArr != nil {
		children := *node.childsArr
		for _, child := range children {
			if child.sym == s {
				return child, child.terminal
			}
		}
	} else {
		child, ok := node.childs[s]
		if ok {
			return child, child.terminal
		}
	}
	return nil, false
}

// insert adds one token sequence to the tree under the given id,
// maintaining the small-fanout child arrays as it goes.
func (root *symNode[S]) insert(seq []S, id Token) {
	seqLen := len(seq)
	node := root
	for i := 0; i < seqLen; i++ {
		s := seq[i]
		childNode, ok := node.childs[s]
		if !ok {
			children := make([]*symNode[S], 0)
			childNode = &symNode[S]{
				sym:       s,
				token:     UnknownToken,
				childs:    make(map[S]*symNode[S], 0),
				childsArr: &children,
			}
			node.childs[s] = childNode
		}
		if len(node.childs) > 10 {
			// If there are more than 10 children, we set the array pointer
			// to nil, so that we can use the map instead.
			node.childsArr = nil
		} else {
			if node.childsArr == nil {
				children := make([]*symNode[S], 0)
				node.childsArr = &children
			}
			if len(node.childs) != len(*node.childsArr) {
				*node.childsArr = append(*node.childsArr, childNode)
			}
		}
		node = childNode
	}
	node.terminal = true
	node.token = id
}

// longestMatch walks seq from its start and returns the length and id of
// the longest inserted sequence that prefixes it. Length 0 means nothing
// matched.
func (root *symNode[S]) longestMatch(seq []S) (int, Token) {
	node := root
	bestLen := 0
	bestTok := UnknownToken
	for i := 0; i < len(seq); i++ {
		child, terminal := root.evaluate(node, seq[i])
		if child == nil {
			break
		}
		if terminal {
			bestLen = i + 1
			bestTok = child.token
		}
		node = child
	}
	return bestLen, bestTok
}

// lookup returns the id recorded for exactly seq.
func (root *symNode[S]) lookup(seq []S) (Token, bool) {
	node := root
	for i := 0; i < len(seq); i++ {
		child, _ := root.evaluate(node, seq[i])
		if child == nil {
			return UnknownToken, false
		}
		node = child
	}
	if !node.terminal {
		return UnknownToken, false
	}
	return node.token, true
}

// Represent the tree as a string by traversing the tree, and using tree
// characters to represent the tree structure.
func (node *symNode[S]) string(level int) string {
	if node == nil {
		return ""
	}
	s := fmt.Sprintf("%v", node.sym)
	idx := 0
	if len(node.childs) == 1 {
		// Get the only element from the map recursively until we find a node
		// with more than one child.
		for c := range node.childs {
			s += node.childs[c].string(level)
		}
		return s
	}
	level += 1
	s += "\n"

	for c := range node.childs {
		childPrefix := strings.Repeat("| ", level-1)
		// If we're the last child, then we prepend with a tree terminator.
		if idx == len(node.childs)-1 {
			childPrefix += "└─"
		} else {
			childPrefix += "├─"
		}
		s += childPrefix + node.childs[c].string(level)
		idx += 1
	}
	return s
}

// Wrapper
func (node *symNode[S]) String() string {
	return node.string(0)
}
