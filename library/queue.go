package library

// Queue is a FIFO of directories with deduplication. A directory is only
// queued once, however many paths lead to it.
type Queue struct {
	items   []entry
	visited map[string]bool
	idx     int
}

type entry struct {
	dir   string
	depth int
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		visited: make(map[string]bool),
	}
}

// Add enqueues dir at depth unless it was seen before. It reports whether dir
// was added.
func (q *Queue) Add(dir string, depth int) bool {
	if q.visited[dir] {
		return false
	}
	q.visited[dir] = true
	q.items = append(q.items, entry{dir: dir, depth: depth})
	return true
}

// HasNext returns true if there are unvisited directories.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next directory and its depth.
func (q *Queue) Next() (string, int) {
	e := q.items[q.idx]
	q.idx++
	return e.dir, e.depth
}

// Visited returns the number of unique directories seen.
func (q *Queue) Visited() int {
	return len(q.visited)
}
