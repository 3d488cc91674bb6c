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

package evaluator

import (
	"github.com/dkoch/chessengine/internal/position"
	. "github.com/dkoch/chessengine/internal/types"
)

// pieceBaseValue is the material value of each piece type in centipawns,
// indexed by PieceType (King, Pawn, Knight, Bishop, Rook, Queen order).
// King carries the mate value since it is never actually captured - the
// capture-evaluation path never reaches it in a legal position.
var pieceBaseValue = [PtLength]int{
	PtNone: 0,
	King:   100000,
	Queen:  900,
	Rook:   500,
	Bishop: 300,
	Knight: 300,
	Pawn:   100,
}

// positionalBonus holds the small square-preference bonus added on top of
// pieceBaseValue, laid out rank 1 to rank 8 (A1 is index 0, H8 is index 63)
// exactly as white sees the board. Black's table is this table mirrored
// vertically, computed once in init().
var positionalBonus = [PtLength][SqLength]int{
	King: {
		0, 2, 3, 4, 4, 3, 2, 0,
		2, 4, 5, 6, 6, 5, 4, 2,
		3, 5, 7, 8, 8, 7, 5, 3,
		3, 5, 8, 9, 9, 8, 5, 3,
		3, 5, 8, 9, 9, 8, 5, 3,
		3, 5, 7, 8, 8, 7, 5, 3,
		2, 4, 5, 6, 6, 5, 4, 2,
		0, 2, 3, 4, 5, 4, 3, 0,
	},
	Queen: {
		0, 2, 3, 4, 4, 3, 2, 0,
		2, 4, 5, 6, 6, 5, 4, 2,
		3, 5, 7, 8, 8, 7, 5, 3,
		3, 5, 8, 9, 9, 8, 5, 3,
		3, 5, 8, 9, 9, 8, 5, 3,
		3, 5, 7, 8, 8, 7, 5, 3,
		2, 4, 5, 6, 6, 5, 4, 2,
		0, 2, 3, 4, 4, 3, 3, 0,
	},
	Rook: {
		0, 2, 2, 2, 2, 2, 2, 0,
		0, 2, 2, 2, 2, 2, 2, 0,
		0, 2, 2, 2, 2, 2, 2, 0,
		0, 2, 2, 2, 2, 2, 2, 0,
		0, 2, 2, 2, 2, 2, 2, 0,
		0, 2, 2, 2, 2, 2, 2, 0,
		0, 2, 2, 2, 2, 2, 2, 0,
		1, 2, 3, 4, 3, 3, 2, 1,
	},
	Bishop: {
		0, 1, 1, 1, 1, 1, 1, 0,
		1, 2, 3, 3, 3, 3, 2, 1,
		1, 3, 4, 6, 6, 4, 3, 1,
		1, 3, 7, 8, 8, 7, 3, 1,
		1, 3, 7, 9, 9, 7, 3, 1,
		2, 4, 5, 7, 7, 5, 4, 2,
		1, 4, 3, 3, 3, 3, 4, 1,
		0, 1, 1, 1, 1, 1, 1, 0,
	},
	Knight: {
		0, 1, 1, 2, 2, 1, 1, 0,
		1, 2, 3, 5, 5, 3, 2, 1,
		3, 4, 6, 7, 7, 6, 4, 3,
		3, 5, 7, 9, 9, 7, 5, 3,
		3, 5, 7, 9, 9, 7, 5, 3,
		3, 4, 6, 8, 8, 6, 4, 3,
		1, 2, 3, 5, 5, 3, 2, 1,
		0, 1, 1, 2, 2, 1, 1, 0,
	},
	Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		7, 8, 9, 9, 9, 9, 8, 7,
		6, 7, 8, 8, 8, 8, 7, 6,
		5, 6, 7, 7, 7, 7, 6, 5,
		4, 5, 6, 6, 6, 6, 5, 4,
		3, 4, 4, 3, 3, 4, 4, 3,
		2, 2, 2, 0, 0, 2, 2, 2,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
}

// psqTable[color][pieceType][square] is pieceBaseValue plus positionalBonus,
// black mirrored vertically from white. Computed once at package init.
var psqTable [ColorLength][PtLength][SqLength]int

func init() {
	for pt := King; pt < PtLength; pt++ {
		if pt == PtNone {
			continue
		}
		for sq := SqA1; sq < SqNone; sq++ {
			value := pieceBaseValue[pt] + positionalBonus[pt][sq]
			psqTable[White][pt][sq] = value
			blackSq := Square(int(Rank8-sq.RankOf()))*8 + Square(sq.FileOf())
			psqTable[Black][pt][blackSq] = value
		}
	}
}

// maxAccumulatorPly bounds the ply-indexed accumulator history. It mirrors
// search.MaxDepth plus quiescence's extra plies but is kept local to avoid
// an import cycle - both are generous upper bounds on one search line.
const maxAccumulatorPly = 128

// Accumulator is a single side-relative running piece-square sum updated
// incrementally on make/undo rather than recomputed from scratch every
// node. Reset gives the white-minus-black piece-square sum from the board,
// negated if black is to move; MakeMove/MakeNullMove push the next ply's
// value (always from the new side-to-move's perspective) and UndoMove pops
// back. Castling and en-passant are not specially handled: the rook move
// of a castle and the captured pawn of an en-passant capture never update
// the accumulator, so it drifts for those moves. This is intentional - the
// search always re-evaluates at the leaves it actually scores rather than
// trusting accumulator state at internal nodes.
type Accumulator struct {
	scores [maxAccumulatorPly]int
	ply    int
}

// Reset recomputes the accumulator from scratch for state and must be
// called once before the first MakeMove/MakeNullMove of a search.
func (a *Accumulator) Reset(p *position.Position) {
	a.ply = 0
	us := p.NextPlayer()
	sum := 0
	for _, c := range [2]Color{us, us.Flip()} {
		sign := 1
		if c != us {
			sign = -1
		}
		for pt := King; pt < PtLength; pt++ {
			if pt == PtNone {
				continue
			}
			pieces := p.PiecesBb(c, pt)
			for pieces != 0 {
				sq := pieces.PopLsb()
				sum += sign * psqTable[c][pt][sq]
			}
		}
	}
	a.scores[0] = sum
}

// Score returns the accumulator value at the current ply, from the
// perspective of the player on move at that ply.
func (a *Accumulator) Score() Value {
	return Value(a.scores[a.ply])
}

// MakeMove updates the accumulator for a move made by the player who was on
// move before the move (the mover), pushing a new ply entry negated so it
// reads from the new side-to-move's perspective. movingType/newType are
// equal except for a promotion; capturedType is PtNone for a non-capture.
func (a *Accumulator) MakeMove(mover Color, from Square, to Square, movingType PieceType, capturedType PieceType, newType PieceType) {
	score := a.scores[a.ply]
	score -= psqTable[mover][movingType][from]
	score += psqTable[mover][newType][to]
	if capturedType != PtNone {
		score += psqTable[mover.Flip()][capturedType][to]
	}
	a.ply++
	a.scores[a.ply] = -score
}

// MakeMoveOn is MakeMove with its arguments read off p and move. It must be
// called before p.DoMove(move) since it needs the board as it stood prior
// to the move (the moving piece's type on its from-square, and any captured
// piece's type on the to-square).
func (a *Accumulator) MakeMoveOn(p *position.Position, move Move) {
	from := move.From()
	to := move.To()
	mover := p.GetPiece(from).ColorOf()
	movingType := p.GetPiece(from).TypeOf()
	newType := movingType
	if move.MoveType() == Promotion {
		newType = move.PromotionType()
	}
	capturedType := p.GetPiece(to).TypeOf()
	a.MakeMove(mover, from, to, movingType, capturedType, newType)
}

// MakeNullMove pushes a new ply entry that only flips perspective - the
// board does not actually change for a null move.
func (a *Accumulator) MakeNullMove() {
	a.ply++
	a.scores[a.ply] = -a.scores[a.ply-1]
}

// UndoMove pops back to the previous ply's accumulator value. It is O(1)
// and is the counterpart to both MakeMove and MakeNullMove.
func (a *Accumulator) UndoMove() {
	a.ply--
}
