package blocking

import (
	"slices"
	"sort"
)

// Block holds the batch indexes of the A and B records sharing one key.
type Block struct {
	Key string
	A   []int
	B   []int
}

// Pair is an (A index, B index) candidate pair.
type Pair struct {
	A int
	B int
}

// Stats summarizes an index.
type Stats struct {
	Blocks       int
	LargestBlock int
	Pairs        int
	UnblockedA   int
	UnblockedB   int
}

// Index maps block keys to the records that carry them.
type Index struct {
	scheme Scheme
	blocks []Block
	keysA  [][]string
	keysB  [][]string
}

// Build indexes the normalized keys of both sources. aKeys[i] and bKeys[j]
// are the normalized titles of the i-th A record and the j-th B record.
func Build(scheme Scheme, aKeys, bKeys []string) *Index {
	ix := &Index{
		scheme: scheme,
		keysA:  make([][]string, len(aKeys)),
		keysB:  make([][]string, len(bKeys)),
	}
	byKey := make(map[string]*Block)
	add := func(key string) *Block {
		b, ok := byKey[key]
		if !ok {
			b = &Block{Key: key}
			byKey[key] = b
		}
		return b
	}
	for i, key := range aKeys {
		ix.keysA[i] = scheme.Keys(key)
		for _, k := range ix.keysA[i] {
			b := add(k)
			b.A = append(b.A, i)
		}
	}
	for j, key := range bKeys {
		ix.keysB[j] = scheme.Keys(key)
		for _, k := range ix.keysB[j] {
			b := add(k)
			b.B = append(b.B, j)
		}
	}

	ix.blocks = make([]Block, 0, len(byKey))
	for _, b := range byKey {
		ix.blocks = append(ix.blocks, *b)
	}
	sort.Slice(ix.blocks, func(i, j int) bool { return ix.blocks[i].Key < ix.blocks[j].Key })
	return ix
}

// Scheme returns the scheme the index was built with.
func (ix *Index) Scheme() Scheme { return ix.scheme }

// Blocks returns the blocks that hold records from both sources, sorted by key.
func (ix *Index) Blocks() []Block {
	out := make([]Block, 0, len(ix.blocks))
	for _, b := range ix.blocks {
		if len(b.A) > 0 && len(b.B) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Lookup returns the block for key.
func (ix *Index) Lookup(key string) (Block, bool) {
	i, found := slices.BinarySearchFunc(ix.blocks, key, func(b Block, k string) int {
		switch {
		case b.Key < k:
			return -1
		case b.Key > k:
			return 1
		}
		return 0
	})
	if !found {
		return Block{}, false
	}
	return ix.blocks[i], true
}

// KeysA returns the block keys of the i-th A record.
func (ix *Index) KeysA(i int) []string { return ix.keysA[i] }

// KeysB returns the block keys of the j-th B record.
func (ix *Index) KeysB(j int) []string { return ix.keysB[j] }

// Pairs returns the pairs of b that the block owns: those whose smallest
// shared block key is b.Key. Every pair sharing at least one key is owned by
// exactly one block.
func (ix *Index) Pairs(b Block) []Pair {
	pairs := make([]Pair, 0, len(b.A)*len(b.B))
	for _, a := range b.A {
		for _, bj := range b.B {
			if firstShared(ix.keysA[a], ix.keysB[bj]) == b.Key {
				pairs = append(pairs, Pair{A: a, B: bj})
			}
		}
	}
	return pairs
}

// AllPairs returns every owned pair across all blocks in block order.
func (ix *Index) AllPairs() []Pair {
	var out []Pair
	for _, b := range ix.Blocks() {
		out = append(out, ix.Pairs(b)...)
	}
	return out
}

// Stats reports block counts and sizes.
func (ix *Index) Stats() Stats {
	var st Stats
	for _, b := range ix.Blocks() {
		st.Blocks++
		st.LargestBlock = max(st.LargestBlock, len(b.A)+len(b.B))
		st.Pairs += len(ix.Pairs(b))
	}
	for _, keys := range ix.keysA {
		if len(keys) == 0 {
			st.UnblockedA++
		}
	}
	for _, keys := range ix.keysB {
		if len(keys) == 0 {
			st.UnblockedB++
		}
	}
	return st
}

// firstShared returns the smallest key present in both sorted lists.
func firstShared(a, b []string) string {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return a[i]
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return ""
}
