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
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/dkoch/chessengine/internal/types"
)

func TestRepetitionRingEnterLeave(t *testing.T) {
	var r repetitionRing
	key := Key(12345)

	assert.False(t, r.atLeast(key, 0))

	r.enter(key)
	assert.True(t, r.atLeast(key, 0))
	assert.False(t, r.atLeast(key, 1))

	r.enter(key)
	assert.True(t, r.atLeast(key, 1))

	r.leave(key)
	r.leave(key)
	assert.False(t, r.atLeast(key, 0))
}

func TestRepetitionRingLeaveNeverNegative(t *testing.T) {
	var r repetitionRing
	key := Key(7)

	r.leave(key)
	assert.False(t, r.atLeast(key, 0))
}

func TestRepetitionRingDistinctSlots(t *testing.T) {
	var r repetitionRing
	a := Key(1)
	b := Key(repetitionRingSize + 1) // same slot as a, different key

	r.enter(a)
	// collision inflates the slot count but never hides a's own entry
	assert.True(t, r.atLeast(b, 0))
}
