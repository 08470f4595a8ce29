package astar

import "github.com/katalvlaran/astarviz/grid"

// openItem is a frontier entry. f and seq are both taken on insertion and
// never change while the node waits in the frontier.
type openItem struct {
	node grid.Coord
	f    int
	seq  int
}

// openQueue is a min-heap of *openItem ordered by (f, seq).
// A node appears at most once.
type openQueue []*openItem

// Len returns the number of items in the heap.
func (q openQueue) Len() int { return len(q) }

// Less orders by f, then by insertion sequence so equal f pops first-in first-out.
func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

// Swap swaps two elements.
func (q openQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

// Push appends x, which must be *openItem.
func (q *openQueue) Push(x interface{}) {
	*q = append(*q, x.(*openItem))
}

// Pop removes and returns the last element.
func (q *openQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]

	return item
}
