package core

import (
	"bytes"
	"fmt"
	"sort"
)

// MerkleTree commits to a fixed list of leaves and produces batched
// multi-proofs: many leaf positions are opened together, in a single
// shared-sibling-list proof that contributes only the sibling hashes not
// already implied by another opened position or a previously emitted
// sibling, rather than proving one leaf at a time.
type MerkleTree struct {
	hasher Hasher
	leaves [][]byte
	levels [][][]byte
	root   []byte
}

// NewMerkleTree hashes each leaf and builds the tree bottom-up. An odd
// level duplicates its last node.
func NewMerkleTree(hasher Hasher, leafData [][]byte) (*MerkleTree, error) {
	if len(leafData) == 0 {
		return nil, fmt.Errorf("core: cannot build a Merkle tree over zero leaves")
	}
	leaves := make([][]byte, len(leafData))
	for i, d := range leafData {
		leaves[i] = hasher.Sum(d)
	}

	levels := [][][]byte{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([][]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			var combined []byte
			if i+1 < len(current) {
				combined = append(append([]byte{}, current[i]...), current[i+1]...)
			} else {
				combined = append(append([]byte{}, current[i]...), current[i]...)
			}
			next = append(next, hasher.Sum(combined))
		}
		levels = append(levels, next)
		current = next
	}

	return &MerkleTree{hasher: hasher, leaves: leaves, levels: levels, root: current[0]}, nil
}

// Root returns the Merkle root.
func (mt *MerkleTree) Root() []byte { return mt.root }

// LeafCount returns the number of committed leaves.
func (mt *MerkleTree) LeafCount() int { return len(mt.leaves) }

// MultiProof is a batched authentication path for a set of leaf indices:
// one sibling hash list, sorted level by level, that lets a verifier
// reconstruct the root from just the opened leaves plus these siblings.
type MultiProof struct {
	Indices  []int
	Siblings [][]byte
}

// ProveMany builds a batched multi-proof for the given (deduplicated,
// order-independent) leaf indices.
func (mt *MerkleTree) ProveMany(indices []int) (*MultiProof, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= len(mt.leaves) {
			return nil, fmt.Errorf("core: leaf index %d out of range [0, %d)", idx, len(mt.leaves))
		}
	}

	known := map[int]bool{}
	current := append([]int{}, indices...)
	sort.Ints(current)
	for i := 0; i < len(current); i++ {
		known[current[i]] = true
	}

	var siblings [][]byte
	for level := 0; level < len(mt.levels)-1; level++ {
		levelNodes := mt.levels[level]
		nextKnown := map[int]bool{}
		siblingsAtLevel := map[int]bool{}
		for idx := range known {
			sibling := idx ^ 1
			if sibling >= len(levelNodes) {
				sibling = idx
			}
			if !known[sibling] {
				siblingsAtLevel[sibling] = true
			}
			nextKnown[idx/2] = true
		}
		var sortedSiblings []int
		for s := range siblingsAtLevel {
			sortedSiblings = append(sortedSiblings, s)
		}
		sort.Ints(sortedSiblings)
		for _, s := range sortedSiblings {
			siblings = append(siblings, levelNodes[s])
		}
		known = nextKnown
	}

	return &MultiProof{Indices: current, Siblings: siblings}, nil
}

// VerifyMultiProof recomputes the root from opened leaves and the batched
// sibling list and reports whether it matches root. leafValues maps each
// opened index to its pre-image bytes (not yet hashed).
func VerifyMultiProof(hasher Hasher, root []byte, treeSize int, leafValues map[int][]byte, proof *MultiProof) (bool, error) {
	levelSize := treeSize
	nodes := map[int][]byte{}
	for idx, data := range leafValues {
		nodes[idx] = hasher.Sum(data)
	}

	siblingIdx := 0
	nextSiblingFor := func(level map[int][]byte, size int, idx int) ([]byte, error) {
		if h, ok := level[idx]; ok {
			return h, nil
		}
		if siblingIdx >= len(proof.Siblings) {
			return nil, fmt.Errorf("core: multi-proof ran out of sibling hashes")
		}
		h := proof.Siblings[siblingIdx]
		siblingIdx++
		return h, nil
	}

	for levelSize > 1 {
		next := map[int][]byte{}
		// process indices in ascending order so sibling consumption order
		// matches ProveMany's level-by-level ascending emission
		var idxs []int
		for idx := range nodes {
			idxs = append(idxs, idx)
		}
		sort.Ints(idxs)
		seen := map[int]bool{}
		for _, idx := range idxs {
			if seen[idx/2] {
				continue
			}
			left, right := idx, idx^1
			if idx%2 == 1 {
				left, right = idx^1, idx
			}
			var leftHash, rightHash []byte
			var err error
			if h, ok := nodes[left]; ok {
				leftHash = h
			} else {
				leftHash, err = nextSiblingFor(nodes, levelSize, left)
				if err != nil {
					return false, err
				}
			}
			if h, ok := nodes[right]; ok && right < levelSize {
				rightHash = h
			} else if right >= levelSize {
				rightHash = leftHash
			} else {
				rightHash, err = nextSiblingFor(nodes, levelSize, right)
				if err != nil {
					return false, err
				}
			}
			combined := append(append([]byte{}, leftHash...), rightHash...)
			next[idx/2] = hasher.Sum(combined)
			seen[idx/2] = true
		}
		nodes = next
		levelSize = (levelSize + 1) / 2
	}

	for _, h := range nodes {
		return bytes.Equal(h, root), nil
	}
	return false, fmt.Errorf("core: multi-proof verification produced no root")
}
