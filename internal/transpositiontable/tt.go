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

// Package transpositiontable implements a transposition table (cache)
// data structure and functionality for a chess engine search.
// The TtTable class is not thread safe and needs to be synchronized
// externally if used from multiple threads. Is especially relevant
// for Resize and Clear which should not be called in parallel
// while searching.
package transpositiontable

import (
	"math"
	"unsafe"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoch/chessengine/internal/config"
	myLogging "github.com/dkoch/chessengine/internal/logging"
	. "github.com/dkoch/chessengine/internal/types"
	"github.com/dkoch/chessengine/internal/util"
)

var out = message.NewPrinter(language.German)

const (
	// MB is the number of bytes in one megabyte, used to convert the
	// configured tt size into a byte count.
	MB = 1024 * 1024

	// MaxSizeInMB maximal memory usage of tt
	MaxSizeInMB = 65_536

	// slotsPerBucket is the number of entries grouped under one hash
	// bucket. Slot 0 is "always preserve", slot 1 is "always replace".
	slotsPerBucket = 2

	// maxGeneration is the largest value the rolling generation tag
	// can take before wrapping back to 1 (0 is reserved to mean "never
	// written").
	maxGeneration = 7
)

// TtTable is the actual transposition table object holding data and
// state. Create with NewTtTable().
//
// Entries are organized into two-slot buckets addressed by the low
// bits of the Zobrist key. Slot 0 of a bucket is overwritten unless
// its entry is from the current generation and the incoming entry is
// not deeper; in that case slot 1 is overwritten instead. Slot 1
// acts as a fast-turnover landing spot for
// shallow or volatile entries. This avoids evicting a deep, still
// relevant PV entry because of a transient hash collision.
type TtTable struct {
	log *logging.Logger

	data               []TtEntry
	sizeInByte         uint64
	capacityBuckets    uint64 // number of buckets the allocated memory can hold
	limit              uint64 // number of buckets currently addressed (<= capacityBuckets)
	bucketMask         uint64 // limit - 1
	maxNumberOfEntries uint64 // capacityBuckets * slotsPerBucket, fixed at allocation time
	numberOfEntries    uint64

	generation int8 // rolling, nonzero generation tag for the current root search

	writesThisSearch uint64
	writesHistory    [2]uint64 // write counts of the two most recently completed searches

	Stats TtStats
}

// TtStats holds statistical data on tt usage
type TtStats struct {
	numberOfPuts       uint64
	numberOfCollisions uint64
	numberOfOverwrites uint64
	numberOfUpdates    uint64
	numberOfProbes     uint64
	numberOfHits       uint64
	numberOfMisses     uint64
}

// NewTtTable creates a new TtTable with the given number of bytes
// as a maximum of memory usage. actual size will be determined
// by the number of elements fitting into this size which need
// to be a power of 2 for efficient hashing/addressing via bit
// masks.
func NewTtTable(sizeInMByte int) *TtTable {
	tt := TtTable{
		log:        myLogging.GetLog(),
		generation: 1,
	}
	tt.Resize(sizeInMByte)
	return &tt
}

// Resize resizes the tt table. All entries will be cleared.
// The TtTable class is not thread safe and needs to be synchronized
// externally if used from multiple threads. Is especially relevant
// for Resize and Clear which should not be called in parallel
// while searching.
func (tt *TtTable) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		tt.log.Error(out.Sprintf("Requested size for TT of %d MB reduced to max of %d MB", sizeInMByte, MaxSizeInMB))
		sizeInMByte = MaxSizeInMB
	}

	// calculate the maximum power of 2 of buckets fitting into the given size in MB
	tt.sizeInByte = uint64(sizeInMByte) * MB
	entriesThatFit := tt.sizeInByte / TtEntrySize
	tt.capacityBuckets = 0
	if entriesThatFit >= slotsPerBucket {
		tt.capacityBuckets = 1 << uint64(math.Floor(math.Log2(float64(entriesThatFit/slotsPerBucket))))
	}

	tt.limit = tt.capacityBuckets
	tt.bucketMask = 0
	if tt.limit > 0 {
		tt.bucketMask = tt.limit - 1
	}
	tt.maxNumberOfEntries = tt.capacityBuckets * slotsPerBucket

	// calculate the real memory usage
	tt.sizeInByte = tt.maxNumberOfEntries * TtEntrySize

	// Create new slice/array - garbage collections takes care of cleanup
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
	tt.writesThisSearch = 0
	tt.writesHistory = [2]uint64{}

	tt.log.Info(out.Sprintf("TT Size %d MByte, Capacity %d buckets (%d entries, size=%dByte each) (Requested were %d MBytes)",
		tt.sizeInByte/MB, tt.capacityBuckets, tt.maxNumberOfEntries, unsafe.Sizeof(TtEntry{}), sizeInMByte))
	tt.log.Debug(util.MemStat())
}

// GetEntry returns a pointer to the corresponding tt entry.
// Given key is checked against both slots of the entry's bucket.
// Does not change statistics.
func (tt *TtTable) GetEntry(key Key) *TtEntry {
	if tt.maxNumberOfEntries == 0 {
		return nil
	}
	base := tt.bucket(key) * slotsPerBucket
	if tt.data[base].Key == key && tt.data[base].generation != 0 {
		return &tt.data[base]
	}
	if tt.data[base+1].Key == key && tt.data[base+1].generation != 0 {
		return &tt.data[base+1]
	}
	return nil
}

// Probe returns a pointer to the corresponding tt entry
// or nil if it was not found.
func (tt *TtTable) Probe(key Key) *TtEntry {
	if tt.maxNumberOfEntries == 0 {
		return nil
	}
	tt.Stats.numberOfProbes++
	e := tt.GetEntry(key)
	if e != nil {
		tt.Stats.numberOfHits++
		return e
	}
	tt.Stats.numberOfMisses++
	return nil
}

// Put stores an entry into the tt. The search value is encoded into
// the move's high 16-bit via Move.SetValue() before storing.
//
// The bucket's slot 0 is preserved only when its entry is from the
// current generation and the new entry is not deeper; otherwise slot 0
// is written. Slot 1 takes the write in the preserved case, giving
// shallow/volatile entries a place to land without disturbing a deep,
// still current slot 0 entry.
func (tt *TtTable) Put(key Key, move Move, depth int8, value Value, valueType ValueType, mateThreat bool) {
	if tt.maxNumberOfEntries == 0 {
		return
	}

	tt.Stats.numberOfPuts++
	tt.writesThisSearch++

	storedMove := move
	if storedMove != MoveNone {
		storedMove.SetValue(value)
	}

	base := tt.bucket(key) * slotsPerBucket
	slot0 := &tt.data[base]
	slot1 := &tt.data[base+1]

	// same position already resident -> update in place preserving
	// useful data the caller chose not to overwrite
	if slot0.generation != 0 && slot0.Key == key {
		tt.updateEntry(slot0, storedMove, depth, valueType, mateThreat)
		return
	}
	if slot1.generation != 0 && slot1.Key == key {
		tt.updateEntry(slot1, storedMove, depth, valueType, mateThreat)
		return
	}

	// new entry for this bucket
	if slot0.generation != 0 || slot1.generation != 0 {
		tt.Stats.numberOfCollisions++
	}

	// slot 0: preserved only while it is from the current generation
	// and the new entry is not deeper
	if slot0.generation == 0 || slot0.generation != tt.generation || depth > slot0.Depth {
		if slot0.generation == 0 {
			tt.numberOfEntries++
		} else {
			tt.Stats.numberOfOverwrites++
		}
		tt.writeEntry(slot0, key, storedMove, depth, valueType, mateThreat)
		return
	}

	// slot 1: always replace
	if slot1.generation == 0 {
		tt.numberOfEntries++
	} else {
		tt.Stats.numberOfOverwrites++
	}
	tt.writeEntry(slot1, key, storedMove, depth, valueType, mateThreat)
}

func (tt *TtTable) writeEntry(e *TtEntry, key Key, move Move, depth int8, valueType ValueType, mateThreat bool) {
	e.Key = key
	e.Move = move
	e.Depth = depth
	e.Type = valueType
	e.MateThreat = mateThreat
	e.generation = tt.generation
}

func (tt *TtTable) updateEntry(e *TtEntry, move Move, depth int8, valueType ValueType, mateThreat bool) {
	tt.Stats.numberOfUpdates++
	if move != MoveNone { // preserve an existing move if we store with MoveNone
		e.Move = move
	}
	e.Depth = depth
	e.Type = valueType
	e.MateThreat = mateThreat
	e.generation = tt.generation
}

// Clear clears all entries of the tt
// The TtTable class is not thread safe and needs to be synchronized
// externally if used from multiple threads. Is especially relevant
// for Resize and Clear which should not be called in parallel
// while searching.
func (tt *TtTable) Clear() {
	// Create new slice/array - garbage collections takes care of cleanup
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
	tt.writesThisSearch = 0
	tt.writesHistory = [2]uint64{}
	tt.Stats = TtStats{}
}

// Hashfull returns how full the transposition table is in permill as per UCI
func (tt *TtTable) Hashfull() int {
	if tt.maxNumberOfEntries == 0 {
		return 0
	}
	return int((1000 * tt.numberOfEntries) / tt.maxNumberOfEntries)
}

// String returns a string representation of this TtTable instance
func (tt *TtTable) String() string {
	return out.Sprintf("TT: size %d MB buckets %d/%d entries %d (%d%%) gen %d puts %d "+
		"updates %d collisions %d overwrites %d probes %d hits %d (%d%%) misses %d (%d%%)",
		tt.sizeInByte/MB, tt.limit, tt.capacityBuckets, tt.numberOfEntries, tt.Hashfull()/10, tt.generation,
		tt.Stats.numberOfPuts, tt.Stats.numberOfUpdates, tt.Stats.numberOfCollisions, tt.Stats.numberOfOverwrites, tt.Stats.numberOfProbes,
		tt.Stats.numberOfHits, (tt.Stats.numberOfHits*100)/(1+tt.Stats.numberOfProbes),
		tt.Stats.numberOfMisses, (tt.Stats.numberOfMisses*100)/(1+tt.Stats.numberOfProbes))
}

// Len returns the number of non empty entries in the tt
func (tt *TtTable) Len() uint64 {
	return tt.numberOfEntries
}

// NextGeneration bumps the rolling generation tag for the upcoming
// root search and, based on how many entries the last two searches
// wrote, grows or shrinks the number of logically addressed buckets.
// This replaces a full aging sweep: entries from a superseded
// generation simply become eligible for slot-0 overwrite on their
// next collision instead of needing to be touched proactively.
func (tt *TtTable) NextGeneration() {
	tt.generation++
	if tt.generation <= 0 || tt.generation > maxGeneration {
		tt.generation = 1
	}

	tt.writesHistory[0] = tt.writesHistory[1]
	tt.writesHistory[1] = tt.writesThisSearch
	tt.writesThisSearch = 0

	tt.adjustLimit()
}

// adjustLimit implements the dynamic resize policy: shrink the
// logical bucket count in half when the table has been clearly
// underused over the last two searches, grow it back toward capacity
// when the most recent search wrote heavily into it. Only the
// addressable window (limit/bucketMask) changes - the allocated
// backing array is never reallocated here.
func (tt *TtTable) adjustLimit() {
	if tt.limit == 0 {
		return
	}

	minLimit := uint64(config.Settings.Search.TTMinLimit)
	if minLimit < 1 {
		minLimit = 1
	}
	capFactor := uint64(config.Settings.Search.TTCapacityFactor)
	if capFactor <= 0 {
		capFactor = 100
	}
	capLimit := (tt.capacityBuckets * capFactor) / 100
	if capLimit > tt.capacityBuckets {
		capLimit = tt.capacityBuckets
	}

	if tt.limit > minLimit && tt.writesHistory[0] < 4*tt.limit && tt.writesHistory[1] < 4*tt.limit {
		tt.setLimit(tt.limit / 2)
		return
	}
	if tt.limit < capLimit && tt.writesHistory[1] > tt.limit/2 {
		newLimit := tt.limit * 2
		if newLimit > capLimit {
			newLimit = capLimit
		}
		tt.setLimit(newLimit)
	}
}

func (tt *TtTable) setLimit(newLimit uint64) {
	if newLimit < 1 {
		newLimit = 1
	}
	// keep it a power of 2
	p := uint64(1)
	for p*2 <= newLimit {
		p *= 2
	}
	tt.limit = p
	tt.bucketMask = tt.limit - 1
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

// bucket computes the bucket index for a key within the currently
// addressed window of the table.
func (tt *TtTable) bucket(key Key) uint64 {
	return uint64(key) & tt.bucketMask
}
