// Package huffman implements the static prefix coder and its compact binary
// wire format. Code tables are built once per encode session from per-symbol
// weights and rebuilt identically by the decoder from the serialized header.
package huffman

import (
	"container/heap"
	"errors"
	"sort"
)

var (
	ErrEmptyTable  = errors.New("huffman: empty frequency table")
	ErrCodeTooLong = errors.New("huffman: code longer than 64 bits")
)

// Code is one entry of a code table: a bit length and the code value held in
// the low Bits bits.
type Code struct {
	Bits  uint8
	Value uint64
}

// Table maps a symbol to its prefix code. No code is a prefix of another.
type Table map[byte]Code

// Symbols returns the coded symbols in ascending order.
func (t Table) Symbols() []byte {
	syms := make([]byte, 0, len(t))
	for s := range t {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// arena node; parent-indexed so depths are recovered without recursion.
type node struct {
	weight float64
	order  int // stable tie-break: leaves carry their symbol, merges count up
	parent int
}

type nodeHeap struct {
	arena *[]node
	idx   []int
}

func (h nodeHeap) Len() int { return len(h.idx) }
func (h nodeHeap) Less(i, j int) bool {
	a, b := (*h.arena)[h.idx[i]], (*h.arena)[h.idx[j]]
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	return a.order < b.order
}
func (h nodeHeap) Swap(i, j int) { h.idx[i], h.idx[j] = h.idx[j], h.idx[i] }
func (h *nodeHeap) Push(x any)   { h.idx = append(h.idx, x.(int)) }
func (h *nodeHeap) Pop() any {
	old := h.idx
	n := len(old)
	x := old[n-1]
	h.idx = old[:n-1]
	return x
}

// NewTable builds a code table from symbol weights (frequencies or
// probabilities; only the ordering matters). Symbols with weight <= 0 are
// excluded. Ties in weight resolve to the lower symbol, so the table is
// fully deterministic. A single-symbol table is forced to a 1-bit code so
// the wire format always carries at least one payload bit per symbol.
func NewTable(weights map[byte]float64) (Table, error) {
	arena := make([]node, 0, 2*len(weights))
	h := &nodeHeap{arena: &arena}
	leaf := make(map[byte]int, len(weights))
	for s := 0; s < 256; s++ {
		w, ok := weights[byte(s)]
		if !ok || w <= 0 {
			continue
		}
		arena = append(arena, node{weight: w, order: s, parent: -1})
		leaf[byte(s)] = len(arena) - 1
		h.idx = append(h.idx, len(arena)-1)
	}
	if len(leaf) == 0 {
		return nil, ErrEmptyTable
	}
	if len(leaf) == 1 {
		for s := range leaf {
			return Table{s: {Bits: 1, Value: 0}}, nil
		}
	}
	heap.Init(h)
	mergeOrder := 256
	for h.Len() > 1 {
		a := heap.Pop(h).(int)
		b := heap.Pop(h).(int)
		arena = append(arena, node{
			weight: arena[a].weight + arena[b].weight,
			order:  mergeOrder,
			parent: -1,
		})
		mergeOrder++
		p := len(arena) - 1
		arena[a].parent = p
		arena[b].parent = p
		heap.Push(h, p)
	}

	// Depth of each leaf is its code length; codes themselves are assigned
	// canonically so encoder and decoder agree without transmitting the tree.
	lengths := make(map[byte]uint8, len(leaf))
	for s, i := range leaf {
		depth := 0
		for arena[i].parent != -1 {
			i = arena[i].parent
			depth++
		}
		if depth > 64 {
			return nil, ErrCodeTooLong
		}
		lengths[s] = uint8(depth)
	}
	return canonical(lengths), nil
}

// canonical assigns code values from bit lengths: symbols sorted by
// (length, symbol) receive consecutive values, left-shifted at each length
// increase. The result is prefix-free for any valid Huffman length set.
func canonical(lengths map[byte]uint8) Table {
	type sl struct {
		sym byte
		n   uint8
	}
	order := make([]sl, 0, len(lengths))
	for s, n := range lengths {
		order = append(order, sl{s, n})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].n != order[j].n {
			return order[i].n < order[j].n
		}
		return order[i].sym < order[j].sym
	})
	t := make(Table, len(order))
	var code uint64
	var prev uint8
	for _, e := range order {
		code <<= e.n - prev
		t[e.sym] = Code{Bits: e.n, Value: code}
		code++
		prev = e.n
	}
	return t
}
