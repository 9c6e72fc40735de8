package mark

// ObjectRef is an opaque, pointer-sized handle into the collector's heap.
// It is value-typed and compared by bit-identity; the mark engine never
// dereferences it, only moves it between deques and hands it back to the
// collector.
type ObjectRef uintptr
