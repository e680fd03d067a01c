package tetris

import "math/rand"

// Randomizer produces the sequence of spawned kinds.
type Randomizer interface {
	Next() Kind
}

// BagRandomizer deals shuffled bags holding each kind exactly once.
type BagRandomizer struct {
	rng *rand.Rand
	bag []Kind
}

// NewBagRandomizer creates a 7-bag randomizer.
func NewBagRandomizer(rng *rand.Rand) *BagRandomizer {
	return &BagRandomizer{rng: rng}
}

// Next returns the next kind, refilling the bag when it runs out.
func (r *BagRandomizer) Next() Kind {
	if len(r.bag) == 0 {
		r.bag = append(r.bag[:0], Kinds[:]...)
		r.rng.Shuffle(len(r.bag), func(i, j int) {
			r.bag[i], r.bag[j] = r.bag[j], r.bag[i]
		})
	}
	k := r.bag[0]
	r.bag = r.bag[1:]
	return k
}

// WeightedRandomizer draws kinds independently. All kinds weigh 1 except
// I, whose weight the difficulty sets.
type WeightedRandomizer struct {
	rng        *rand.Rand
	cumulative [len(Kinds)]float64
}

// NewWeightedRandomizer creates a randomizer with the given I weight.
func NewWeightedRandomizer(rng *rand.Rand, iWeight float64) *WeightedRandomizer {
	r := &WeightedRandomizer{rng: rng}
	sum := 0.0
	for i, k := range Kinds {
		w := 1.0
		if k == KindI {
			w = iWeight
		}
		sum += w
		r.cumulative[i] = sum
	}
	return r
}

// Next returns a kind drawn by weight.
func (r *WeightedRandomizer) Next() Kind {
	x := r.rng.Float64() * r.cumulative[len(r.cumulative)-1]
	for i, c := range r.cumulative {
		if x < c {
			return Kinds[i]
		}
	}
	return Kinds[len(Kinds)-1]
}

// Queue is the upcoming-piece list fed by a Randomizer.
type Queue struct {
	src   Randomizer
	size  int
	items []Piece
}

// NewQueue creates a queue that keeps size pieces ready.
func NewQueue(src Randomizer, size int) *Queue {
	q := &Queue{src: src, size: max(size, 1)}
	q.fill()
	return q
}

func (q *Queue) fill() {
	for len(q.items) < q.size {
		q.items = append(q.items, Piece{Kind: q.src.Next()})
	}
}

// Pop removes and returns the next piece.
func (q *Queue) Pop() Piece {
	q.fill()
	p := q.items[0]
	q.items = q.items[1:]
	q.fill()
	return p
}

// Peek returns up to n upcoming pieces.
func (q *Queue) Peek(n int) []Piece {
	n = min(n, len(q.items))
	return append([]Piece(nil), q.items[:n]...)
}

// Insert puts p at position i. The queue grows past its size until the
// extra piece is popped, so no randomizer piece is lost.
func (q *Queue) Insert(i int, p Piece) {
	i = min(max(i, 0), len(q.items))
	q.items = append(q.items[:i], append([]Piece{p}, q.items[i:]...)...)
}

// Len is the number of pieces ready.
func (q *Queue) Len() int { return len(q.items) }
