package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func opKinds(ops []op) []opKind {
	out := make([]opKind, len(ops))
	for i, o := range ops {
		out[i] = o.Kind
	}
	return out
}

func TestMyersTrimsCommonEnds(t *testing.T) {
	ops := myers([]int{1, 2, 3, 4}, []int{1, 5, 4})
	assert.Equal(t, []opKind{opEqual, opDelete, opDelete, opInsert, opEqual}, opKinds(ops))
	assert.Equal(t, op{Kind: opEqual, AIdx: 3, BIdx: 2}, ops[4])
	assert.Equal(t, op{Kind: opInsert, AIdx: -1, BIdx: 1}, ops[3])
}

func countEdits(ops []op) int {
	edits := 0
	for _, o := range ops {
		if o.Kind != opEqual {
			edits++
		}
	}
	return edits
}

func TestShortestEditMinimal(t *testing.T) {
	ops := shortestEdit([]byte("abcabba"), []byte("cbabac"), maxEditDistance)
	assert.Equal(t, 5, countEdits(ops))
}

func TestShortestEditLimitFallsBackToReplace(t *testing.T) {
	ops := shortestEdit([]int{1, 2, 3}, []int{4, 2, 5}, 1)
	assert.Equal(t, []opKind{opDelete, opDelete, opDelete, opInsert, opInsert, opInsert}, opKinds(ops))

	ops = shortestEdit([]int{1, 2, 3}, []int{4, 2, 5}, 4)
	assert.Equal(t, 4, countEdits(ops))
	assert.Len(t, ops, 5)
}
