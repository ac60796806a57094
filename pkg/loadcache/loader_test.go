package loadcache

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoaderChain_Run(t *testing.T) {
	t.Parallel()

	is := assert.New(t)
	var counter int32

	loaders := LoaderChain[int, int]{
		func(keys []int) (map[int]int, error) {
			atomic.AddInt32(&counter, 1)
			return map[int]int{1: 1, 2: 2}, nil
		},
		func(keys []int) (map[int]int, error) {
			atomic.AddInt32(&counter, 1)
			return map[int]int{2: 42, 3: 3}, nil
		},
	}

	found, missing, err := loaders.run([]int{1, 2, 3, 4})

	is.NoError(err)
	is.Equal(map[int]int{1: 1, 2: 42, 3: 3}, found, "later loaders overwrite earlier ones")
	is.Equal([]int{4}, missing)
	is.EqualValues(2, atomic.LoadInt32(&counter))
}

func TestLoaderChain_Run_StopsOnError(t *testing.T) {
	t.Parallel()

	is := assert.New(t)
	var counter int32

	loaders := LoaderChain[int, int]{
		func(keys []int) (map[int]int, error) {
			atomic.AddInt32(&counter, 1)
			return map[int]int{1: 1}, nil
		},
		func(keys []int) (map[int]int, error) {
			atomic.AddInt32(&counter, 1)
			return nil, assert.AnError
		},
		func(keys []int) (map[int]int, error) {
			atomic.AddInt32(&counter, 1)
			return map[int]int{2: 2}, nil
		},
	}

	found, missing, err := loaders.run([]int{1, 2})

	is.ErrorIs(err, assert.AnError)
	is.Nil(found)
	is.Nil(missing)
	is.EqualValues(2, atomic.LoadInt32(&counter), "loader after the error must not run")
}

func TestLoaderChain_Run_EmptyChainLeavesEverythingMissing(t *testing.T) {
	t.Parallel()

	is := assert.New(t)

	found, missing, err := LoaderChain[int, int]{}.run([]int{1, 2, 3})

	is.NoError(err)
	is.Empty(found)
	sort.Ints(missing)
	is.Equal([]int{1, 2, 3}, missing)
}

func TestLoaderChain_Run_OnlyAsksForStillMissingKeys(t *testing.T) {
	t.Parallel()

	is := assert.New(t)
	var secondLoaderSaw []int

	loaders := LoaderChain[int, int]{
		func(keys []int) (map[int]int, error) {
			return map[int]int{1: 1}, nil
		},
		func(keys []int) (map[int]int, error) {
			secondLoaderSaw = append([]int{}, keys...)
			return map[int]int{2: 2}, nil
		},
	}

	_, _, err := loaders.run([]int{1, 2})
	is.NoError(err)

	sort.Ints(secondLoaderSaw)
	is.Equal([]int{2}, secondLoaderSaw)
}
