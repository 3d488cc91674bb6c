/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package transpositiontable

import (
	"math/rand"
	"os"
	"path"
	"runtime"
	"testing"
	"time"
	"unsafe"

	logging2 "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"

	"github.com/dkoch/chessengine/internal/config"
	"github.com/dkoch/chessengine/internal/logging"
	"github.com/dkoch/chessengine/internal/position"
	. "github.com/dkoch/chessengine/internal/types"
)

var logTest *logging2.Logger

// make tests run in the projects root directory
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

// Setup the tests
func TestMain(m *testing.M) {
	config.Setup()
	logTest = logging.GetTestLog()
	code := m.Run()
	os.Exit(code)
}

func TestEntrySize(t *testing.T) {
	e := TtEntry{}
	assert.EqualValues(t, 16, unsafe.Sizeof(e))
	logTest.Debugf("Size of Entry %d bytes", unsafe.Sizeof(e))
}

func TestNew(t *testing.T) {
	tt := NewTtTable(2)
	assert.Equal(t, uint64(131_072), tt.maxNumberOfEntries)
	assert.Equal(t, 131_072, cap(tt.data))

	tt = NewTtTable(64)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)
	assert.Equal(t, 4_194_304, cap(tt.data))

	tt = NewTtTable(100)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)
	assert.Equal(t, 4_194_304, cap(tt.data))

	tt = NewTtTable(4_096)
	assert.Equal(t, uint64(268_435_456), tt.maxNumberOfEntries)
	assert.Equal(t, 268_435_456, cap(tt.data))
}

func TestGetAndProbe(t *testing.T) {
	tt := NewTtTable(64)
	assert.Equal(t, uint64(4_194_304), tt.maxNumberOfEntries)
	assert.Equal(t, 4_194_304, cap(tt.data))

	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)
	tt.Put(pos.ZobristKey(), move, 5, Value(0), Vnone, false)

	e := tt.GetEntry(pos.ZobristKey())
	assert.Equal(t, pos.ZobristKey(), e.Key)
	assert.Equal(t, move, e.Move.MoveOf())
	assert.EqualValues(t, 5, e.Depth)
	assert.Equal(t, Vnone, e.Type)

	e = tt.Probe(pos.ZobristKey())
	assert.NotNil(t, e)
	assert.Equal(t, pos.ZobristKey(), e.Key)

	// not in tt
	pos.DoMove(move)
	e = tt.Probe(pos.ZobristKey())
	assert.Nil(t, e)
}

func TestClear(t *testing.T) {
	tt := NewTtTable(1)

	pos := position.NewPosition()
	move := CreateMove(SqE2, SqE4, Normal, PtNone)
	tt.Put(pos.ZobristKey(), move, 5, Value(0), Vnone, false)

	e := tt.Probe(pos.ZobristKey())
	assert.NotNil(t, e)
	assert.EqualValues(t, 1, tt.numberOfEntries)

	tt.Clear()

	e = tt.Probe(pos.ZobristKey())
	assert.Nil(t, e)
	assert.EqualValues(t, 0, tt.numberOfEntries)
}

func TestGeneration(t *testing.T) {
	tt := NewTtTable(1)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	tt.Put(1, move, 3, Value(1), ALPHA, false)
	e := tt.GetEntry(1)
	assert.EqualValues(t, 1, tt.generation)
	assert.NotNil(t, e)

	tt.NextGeneration()
	assert.EqualValues(t, 2, tt.generation)

	// same depth, older generation resident in slot 0 -> gets overwritten
	collidingKey := Key(1 + tt.limit*slotsPerBucket)
	tt.Put(collidingKey, move, 3, Value(2), BETA, false)
	e = tt.GetEntry(collidingKey)
	assert.NotNil(t, e)
	assert.EqualValues(t, collidingKey, e.Key)
}

func TestPut(t *testing.T) {
	tt := NewTtTable(4)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	// test of put and probe
	tt.Put(111, move, 4, Value(111), ALPHA, false)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 1, tt.Stats.numberOfPuts)
	e := tt.Probe(111)
	assert.EqualValues(t, 111, e.Key)
	assert.EqualValues(t, move, e.Move.MoveOf())
	assert.EqualValues(t, 4, e.Depth)
	assert.EqualValues(t, ALPHA, e.Type)

	// test of put update and probe (same position)
	tt.Put(111, move, 5, Value(112), BETA, false)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Stats.numberOfPuts)
	assert.EqualValues(t, 1, tt.Stats.numberOfUpdates)
	assert.EqualValues(t, 0, tt.Stats.numberOfCollisions)
	e = tt.Probe(111)
	assert.EqualValues(t, 111, e.Key)
	assert.EqualValues(t, 5, e.Depth)
	assert.EqualValues(t, BETA, e.Type)

	// test of collision: same bucket, different key -> lands in slot 1
	collisionKey := Key(111 + tt.limit)
	tt.Put(collisionKey, move, 2, Value(113), EXACT, false)
	assert.EqualValues(t, 2, tt.Len())
	assert.EqualValues(t, 3, tt.Stats.numberOfPuts)
	assert.EqualValues(t, 1, tt.Stats.numberOfCollisions)

	e = tt.Probe(collisionKey)
	assert.NotNil(t, e)
	assert.EqualValues(t, collisionKey, e.Key)

	// slot 0 entry for this bucket must still be the deeper one
	e = tt.Probe(111)
	assert.NotNil(t, e)
	assert.EqualValues(t, 111, e.Key)
	assert.EqualValues(t, 5, e.Depth)
}

func TestResizeAndLimit(t *testing.T) {
	tt := NewTtTable(64)
	assert.Equal(t, tt.capacityBuckets, tt.limit)

	move := CreateMove(SqE2, SqE4, Normal, PtNone)
	// light usage -> NextGeneration should shrink the logical limit
	tt.Put(1, move, 1, Value(1), Vnone, false)
	tt.NextGeneration()
	tt.NextGeneration()
	assert.Less(t, tt.limit, tt.capacityBuckets)
}

func TestTimingTTe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	tt := NewTtTable(1_024)
	move := CreateMove(SqE2, SqE4, Normal, PtNone)

	const rounds = 5
	const iterations uint64 = 50_000_000

	for r := 1; r <= rounds; r++ {
		out.Printf("Round %d\n", r)
		key := Key(rand.Uint64())
		depth := int8(rand.Int31n(128))
		value := Value(rand.Int31n(int32(ValueMax)))
		valueType := ValueType(rand.Int31n(4))
		start := time.Now()
		for i := uint64(0); i < iterations; i++ {
			tt.Put(key+Key(i), move, depth, value, valueType, false)
		}
		for i := uint64(0); i < iterations; i++ {
			k := Key(key + Key(2*i))
			_ = tt.Probe(k)
		}
		elapsed := time.Since(start)
		out.Println(tt.String())
		out.Printf("TimingTT took %d ns for %d iterations (1 put 1 probe)\n", elapsed.Nanoseconds(), iterations)
		out.Printf("1 put/probes in %d ns: %d tts\n",
			elapsed.Nanoseconds()/int64(iterations),
			(iterations*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()))
	}
}
