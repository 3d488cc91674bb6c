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

package moveslice

import (
	. "github.com/dkoch/chessengine/internal/types"
)

// MoveList holds pseudo-legal moves of a single position sorted into fixed
// priority buckets so the search can walk them best-first without a sort
// pass. Bucket assignment mirrors MVV-LVA for captures:
//
//	0       king captures (can't happen in a legal position; flushed first)
//	1-9     captures by (victim rank, attacker rank), queens before pawns
//	3       queen promotions share the bucket with rank-9 victim captures
//	10      killer moves (quiet moves that caused a beta cutoff at a sibling)
//	11      remaining quiet moves
//	12      under-promotions (rook, bishop, knight)
type MoveList struct {
	moves  [NumPriorities][maxPerPriority]Move
	counts [NumPriorities]int
}

// NumPriorities is the number of move buckets in a MoveList.
const NumPriorities = 13

const maxPerPriority = 256

// Bucket indices with a name worth giving - the MVV-LVA buckets in between
// are computed from captureBucket and have no individual names.
const (
	PriorityKingCapture    = 0
	PriorityQueenPromotion = 3
	PriorityKillerMove     = 10
	PriorityQuietMove      = 11
	PriorityUnderPromotion = 12
)

// mvvLvaRank maps a PieceType onto its row/column in captureBucket and
// promotionBucket, which are laid out King, Queen, Rook, Bishop, Knight, Pawn.
var mvvLvaRank = [PtLength]int{
	PtNone: -1,
	King:   0,
	Queen:  1,
	Rook:   2,
	Bishop: 3,
	Knight: 4,
	Pawn:   5,
}

// captureBucket[attacker][victim] gives the priority of a capture. King
// victims always flush to bucket 0 since they are a sentinel for an illegal
// position, never a move the search should actually pick.
var captureBucket = [6][6]int{
	{PriorityKingCapture, 8, 8, 9, 9, 9}, // King x ...
	{PriorityKingCapture, 4, 5, 6, 6, 7}, // Queen x ...
	{PriorityKingCapture, 3, 4, 5, 5, 6}, // Rook x ...
	{PriorityKingCapture, 2, 3, 4, 4, 5}, // Bishop x ...
	{PriorityKingCapture, 2, 3, 4, 4, 5}, // Knight x ...
	{PriorityKingCapture, 1, 2, 3, 3, 4}, // Pawn x ...
}

// promotionBucket[newType] gives the priority of a promotion to newType.
// -1 marks a piece type a pawn never promotes to.
var promotionBucket = [6]int{-1, PriorityQueenPromotion, PriorityUnderPromotion, PriorityUnderPromotion, PriorityUnderPromotion, -1}

// Clear empties all buckets, retaining the backing arrays.
func (ml *MoveList) Clear() {
	ml.counts = [NumPriorities]int{}
}

// Count returns the number of moves stored in the given priority bucket.
func (ml *MoveList) Count(priority int) int {
	return ml.counts[priority]
}

// At returns the move at idx in the given priority bucket.
func (ml *MoveList) At(priority, idx int) Move {
	return ml.moves[priority][idx]
}

// Add classifies move into a priority bucket and stores it there.
// capturedType is PtNone for a quiet move (including a quiet promotion).
// newType equals movingType unless the move is a promotion.
func (ml *MoveList) Add(move Move, movingType, capturedType, newType PieceType, killers [2]Move) {
	priority := PriorityQuietMove
	switch {
	case capturedType != PtNone:
		priority = captureBucket[mvvLvaRank[movingType]][mvvLvaRank[capturedType]]
	case newType != movingType:
		priority = promotionBucket[mvvLvaRank[newType]]
	case move == killers[0] || move == killers[1]:
		priority = PriorityKillerMove
	}
	idx := ml.counts[priority]
	if idx >= maxPerPriority {
		// a real position never comes close to 256 moves in one bucket;
		// guard against corrupting a neighboring bucket instead of panicking.
		return
	}
	ml.moves[priority][idx] = move
	ml.counts[priority] = idx + 1
}

// Walk visits every move from the highest to the lowest priority bucket,
// skipping skip (normally a transposition table move already searched
// separately). It stops as soon as visit returns false.
func (ml *MoveList) Walk(skip Move, visit func(move Move) bool) {
	skipBare := skip.MoveOf()
	for pri := 0; pri < NumPriorities; pri++ {
		count := ml.counts[pri]
		for i := 0; i < count; i++ {
			m := ml.moves[pri][i]
			if skipBare != MoveNone && m == skipBare {
				continue
			}
			if !visit(m) {
				return
			}
		}
	}
}
