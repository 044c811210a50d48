package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var visited []int
	For(5, func(i int) { visited = append(visited, i) }, cfg)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, visited)
}

func TestFor_CoversAllIndices(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	const n = 1000
	var counts [n]int32
	For(n, func(i int) { atomic.AddInt32(&counts[i], 1) }, cfg)

	for i, c := range counts {
		assert.Equal(t, int32(1), c, "index %d", i)
	}
}

func TestFor_SmallNStaysSequential(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}

	// Below MinChunkSize the loop must not spawn goroutines, so ordered
	// appends without synchronization are safe.
	var visited []int
	For(10, func(i int) { visited = append(visited, i) }, cfg)

	assert.Len(t, visited, 10)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, visited)
}

func TestForLanes(t *testing.T) {
	cfg := Config{Enabled: false}

	type lane struct{ b, c int }
	var lanes []lane
	ForLanes(2, 3, func(b, c int) { lanes = append(lanes, lane{b, c}) }, cfg)

	assert.Equal(t, []lane{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
	}, lanes)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Positive(t, cfg.NumWorkers)
	assert.Positive(t, cfg.MinChunkSize)
}
