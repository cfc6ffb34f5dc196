package huffman

import "container/heap"

// node is one vertex of the code tree. Leaves carry a symbol, internal
// nodes always have both children.
type node struct {
	sym    byte
	weight uint64
	left   *node
	right  *node
}

func (n *node) leaf() bool {
	return n.left == nil
}

// queueItem pairs a node with its insertion sequence number so that equal
// weights pop in insertion order.
type queueItem struct {
	node *node
	seq  int
}

// nodeQueue is a min-heap ordered by weight, then insertion sequence.
type nodeQueue []queueItem

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].node.weight != q[j].node.weight {
		return q[i].node.weight < q[j].node.weight
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// buildTree assembles the code tree for every symbol with a nonzero count.
// Leaves enter the queue in ascending symbol order, the first node popped
// during a merge becomes the left child, and merged nodes queue behind
// existing entries of the same weight. The shape is therefore a pure
// function of the frequency table. A nil tree means empty input.
func buildTree(freq *FrequencyTable) *node {
	q := make(nodeQueue, 0, freq.Distinct())
	seq := 0
	for sym := 0; sym < 256; sym++ {
		if freq[sym] == 0 {
			continue
		}
		q = append(q, queueItem{node: &node{sym: byte(sym), weight: freq[sym]}, seq: seq})
		seq++
	}
	if len(q) == 0 {
		return nil
	}

	heap.Init(&q)
	for q.Len() > 1 {
		left := heap.Pop(&q).(queueItem)
		right := heap.Pop(&q).(queueItem)
		parent := &node{
			weight: left.node.weight + right.node.weight,
			left:   left.node,
			right:  right.node,
		}
		heap.Push(&q, queueItem{node: parent, seq: seq})
		seq++
	}
	return q[0].node
}
