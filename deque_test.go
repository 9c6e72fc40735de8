package mark

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// LocalDequeTestSuite pins the ring's wraparound and boundary behavior.
// Grounded on the teacher's WorkerPoolTestSuite pattern in
// workerpool_test.go.
type LocalDequeTestSuite struct {
	suite.Suite
}

func TestLocalDequeTestSuite(t *testing.T) {
	suite.Run(t, new(LocalDequeTestSuite))
}

func (ts *LocalDequeTestSuite) TestEmptyDeque() {
	d := newLocalDeque(4)
	ts.True(d.isEmpty())
	ts.False(d.isFull())
	ts.Equal(0, d.len())

	_, ok := d.pop()
	ts.False(ok)
	_, ok = d.popBack()
	ts.False(ok)
}

func (ts *LocalDequeTestSuite) TestFirstPushHeadTailSameSlot() {
	d := newLocalDeque(4)
	ts.True(d.push(ObjectRef(1)))
	ts.Equal(d.head, d.tail)
	ts.Equal(1, d.len())
}

func (ts *LocalDequeTestSuite) TestPushPopLIFOOrderAtTail() {
	d := newLocalDeque(4)
	d.push(1)
	d.push(2)
	d.push(3)

	v, ok := d.pop()
	ts.True(ok)
	ts.Equal(ObjectRef(3), v)

	v, ok = d.pop()
	ts.True(ok)
	ts.Equal(ObjectRef(2), v)
}

func (ts *LocalDequeTestSuite) TestPopBackTakesOldestFirst() {
	d := newLocalDeque(4)
	d.push(1)
	d.push(2)
	d.push(3)

	v, ok := d.popBack()
	ts.True(ok)
	ts.Equal(ObjectRef(1), v)

	v, ok = d.popBack()
	ts.True(ok)
	ts.Equal(ObjectRef(2), v)
}

func (ts *LocalDequeTestSuite) TestFull() {
	d := newLocalDeque(3)
	ts.True(d.push(1))
	ts.True(d.push(2))
	ts.True(d.push(3))
	ts.True(d.isFull())
	ts.False(d.push(4))
	ts.Equal(3, d.len())
}

// TestWraparound pins the length-1-to-0 transition and subsequent cursor
// bookkeeping pinned down in SPEC_FULL.md §10.1: repeatedly filling and
// draining a small ring must never corrupt head/tail even as the cursors
// wrap modulo capacity many times over.
func (ts *LocalDequeTestSuite) TestWraparound() {
	d := newLocalDeque(3)
	var next ObjectRef
	for round := 0; round < 10; round++ {
		for i := 0; i < 3; i++ {
			ts.True(d.push(next))
			next++
		}
		ts.True(d.isFull())
		for i := 0; i < 3; i++ {
			_, ok := d.pop()
			ts.True(ok)
		}
		ts.True(d.isEmpty())
	}
}

// TestDrainToEmptyThenPushAgain pins the "length 1 -> 0" cursor reset:
// after the last element is removed, the deque must behave exactly like
// a freshly constructed one.
func (ts *LocalDequeTestSuite) TestDrainToEmptyThenPushAgain() {
	d := newLocalDeque(2)
	d.push(1)
	v, ok := d.pop()
	ts.True(ok)
	ts.Equal(ObjectRef(1), v)
	ts.True(d.isEmpty())

	ts.True(d.push(2))
	ts.Equal(d.head, d.tail)
	v, ok = d.pop()
	ts.True(ok)
	ts.Equal(ObjectRef(2), v)
}

func (ts *LocalDequeTestSuite) TestMixedPushPopAndPopBack() {
	d := newLocalDeque(5)
	d.push(1)
	d.push(2)
	d.push(3)

	v, ok := d.popBack() // oldest: 1
	ts.True(ok)
	ts.Equal(ObjectRef(1), v)

	d.push(4)
	v, ok = d.pop() // newest: 4
	ts.True(ok)
	ts.Equal(ObjectRef(4), v)

	ts.Equal(2, d.len())
}

func (ts *LocalDequeTestSuite) TestPosMod() {
	ts.Equal(0, posMod(-1, 1))
	ts.Equal(2, posMod(-1, 3))
	ts.Equal(0, posMod(3, 3))
	ts.Equal(1, posMod(4, 3))
}
