package tetris

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBagDealsEveryKindOncePerBag(t *testing.T) {
	r := NewBagRandomizer(rand.New(rand.NewSource(42)))
	for bag := 0; bag < 20; bag++ {
		seen := map[Kind]int{}
		for i := 0; i < len(Kinds); i++ {
			seen[r.Next()]++
		}
		for _, k := range Kinds {
			assert.Equal(t, 1, seen[k], "bag %d kind %v", bag, k)
		}
	}
}

func TestWeightedRandomizerRespectsZeroWeight(t *testing.T) {
	r := NewWeightedRandomizer(rand.New(rand.NewSource(1)), 0)
	for i := 0; i < 1000; i++ {
		assert.NotEqual(t, KindI, r.Next())
	}
}

func TestWeightedRandomizerFavorsHeavyI(t *testing.T) {
	count := func(w float64) int {
		r := NewWeightedRandomizer(rand.New(rand.NewSource(3)), w)
		n := 0
		for i := 0; i < 7000; i++ {
			if r.Next() == KindI {
				n++
			}
		}
		return n
	}
	assert.Greater(t, count(DifficultyEasy.IWeight()), count(DifficultyHard.IWeight()))
}

func TestQueue(t *testing.T) {
	q := NewQueue(NewBagRandomizer(rand.New(rand.NewSource(5))), 7)
	peek := q.Peek(5)
	assert.Len(t, peek, 5)
	assert.Equal(t, peek[0], q.Pop())
	assert.Len(t, q.Peek(10), 7, "queue refills after a pop")

	item := Piece{Kind: KindT, Item: ItemLineClear}
	next := q.Peek(1)[0]
	q.Insert(1, item)
	got := q.Peek(2)
	assert.Equal(t, next, got[0])
	assert.Equal(t, item, got[1])
	assert.Len(t, q.Peek(10), 8, "an inserted piece grows the queue")
}

func TestQueueInsertKeepsBag(t *testing.T) {
	q := NewQueue(NewBagRandomizer(rand.New(rand.NewSource(11))), 7)
	q.Insert(1, Piece{Kind: KindO, Item: ItemCrossClear})

	seen := map[Kind]int{}
	for i := 0; i < 8; i++ {
		if p := q.Pop(); p.Item == ItemNone {
			seen[p.Kind]++
		}
	}
	for _, k := range Kinds {
		assert.Equal(t, 1, seen[k], "%v", k)
	}
	assert.Equal(t, 7, q.Len())
}

func TestSameSeedSameSequence(t *testing.T) {
	a := NewBagRandomizer(rand.New(rand.NewSource(9)))
	b := NewBagRandomizer(rand.New(rand.NewSource(9)))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}
