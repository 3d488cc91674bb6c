//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package search

import (
	. "github.com/dkoch/chessengine/internal/types"
)

// repetitionRingSize is the number of counters in the ring. It only
// needs to be a power of two so the index can be taken with a mask.
const repetitionRingSize = 256

// repetitionRing is a small, fixed-size occupancy counter for Zobrist
// keys currently on the search stack of the active root search. It is
// indexed by the low bits of the key and gives a cheap "definitely not
// on the path" answer before falling back to Position.CheckRepetitions,
// which has to walk the actual history stack.
//
// A count of 0 for a key's slot proves the position cannot be a
// repetition of anything on the current path (a collision can only
// ever produce a false positive, never a false negative), so the
// expensive history scan can be skipped entirely in that case.
type repetitionRing [repetitionRingSize]int8

func (r *repetitionRing) enter(key Key) {
	r[uint64(key)&(repetitionRingSize-1)]++
}

func (r *repetitionRing) leave(key Key) {
	idx := uint64(key) & (repetitionRingSize - 1)
	if r[idx] > 0 {
		r[idx]--
	}
}

// atLeast reports whether the slot for key has been entered more than
// reps times, counting the current node's own entry. A collision with
// another key can only inflate the count, never deflate it, so a false
// result here is a reliable proof that key cannot have occurred reps
// times among the current node's ancestors.
func (r *repetitionRing) atLeast(key Key, reps int) bool {
	return int(r[uint64(key)&(repetitionRingSize-1)]) > reps
}
