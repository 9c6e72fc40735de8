package mark

// localDeque is a fixed-capacity ring of ObjectRef, owned exclusively by
// one worker. push/pop operate at the tail (the worker's hot path,
// preserving depth-first cache locality); popBack operates at the head
// and is used only by the owner when shedding work to the global queue
// (donating the oldest, least-likely-to-be-hot entries).
//
// Never accessed by a goroutine other than its owner, except through
// popBack invoked by the owner itself.
type localDeque struct {
	buf    []ObjectRef
	cap    int
	length int
	head   int
	tail   int
}

func newLocalDeque(capacity int) *localDeque {
	if capacity <= 0 {
		capacity = 1
	}
	return &localDeque{
		buf: make([]ObjectRef, capacity),
		cap: capacity,
	}
}

// posMod is a modulo that always produces a non-negative result, even
// when a cursor is conceptually decremented past zero.
func posMod(a, b int) int {
	return ((a % b) + b) % b
}

func (d *localDeque) isEmpty() bool {
	return d.length == 0
}

func (d *localDeque) isFull() bool {
	return d.length == d.cap
}

func (d *localDeque) len() int {
	return d.length
}

// push adds v at the tail. Returns false without blocking if the deque is
// full. On the first push into an empty deque, head and tail point at the
// same slot; subsequent pushes advance tail modulo capacity.
func (d *localDeque) push(v ObjectRef) bool {
	if d.isFull() {
		return false
	}
	if !d.isEmpty() {
		d.tail = posMod(d.tail+1, d.cap)
	}
	d.buf[d.tail] = v
	d.length++
	return true
}

// pop removes and returns the tail element. Precondition: non-empty.
func (d *localDeque) pop() (ObjectRef, bool) {
	if d.isEmpty() {
		return 0, false
	}
	v := d.buf[d.tail]
	d.tail = posMod(d.tail-1, d.cap)
	d.length--
	if d.length == 0 {
		d.head = d.tail
	}
	return v, true
}

// popBack removes and returns the head element. Precondition: non-empty.
func (d *localDeque) popBack() (ObjectRef, bool) {
	if d.isEmpty() {
		return 0, false
	}
	index := d.head
	v := d.buf[index]
	d.head = posMod(d.head+1, d.cap)
	d.length--
	if d.length == 0 {
		d.tail = d.head
	}
	return v, true
}
