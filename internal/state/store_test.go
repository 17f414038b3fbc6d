package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	s := New()

	_, ok := s.Get("build.status")
	assert.False(t, ok)

	s.Set("build.status", "ok")

	v, ok := s.Get("build.status")
	require.True(t, ok)
	assert.Equal(t, "ok", v)
}

func TestSubscribeExactPath(t *testing.T) {
	s := New()

	var got []any
	s.Subscribe("build.status", func(path string, value any) {
		got = append(got, value)
	})

	s.Set("build.status", "building")
	s.Set("build.status", "ok")
	s.Set("other", "ignored")

	assert.Equal(t, []any{"building", "ok"}, got)
}

func TestSubscribePrefixSeesChildChanges(t *testing.T) {
	s := New()

	var paths []string
	s.Subscribe("build", func(path string, value any) {
		paths = append(paths, path)
	})

	s.Set("build.status", 1)
	s.Set("build.artifacts.count", 2)
	s.Set("builder", 3) // not a child of "build"

	assert.Equal(t, []string{"build.status", "build.artifacts.count"}, paths)
}

func TestAncestorSubscribersFireFirst(t *testing.T) {
	s := New()

	// Registered leaf-first to prove ordering does not depend on
	// registration or map iteration order.
	var order []string
	s.Subscribe("build.status", func(path string, value any) { order = append(order, "leaf") })
	s.Subscribe("build", func(path string, value any) { order = append(order, "ancestor") })

	for i := 0; i < 20; i++ {
		order = order[:0]
		s.Set("build.status", i)
		require.Equal(t, []string{"ancestor", "leaf"}, order)
	}
}

func TestDeliveryIsSynchronousAndOrdered(t *testing.T) {
	s := New()

	var order []string
	s.Subscribe("k", func(path string, value any) { order = append(order, "first") })
	s.Subscribe("k", func(path string, value any) { order = append(order, "second") })

	s.Set("k", 1)

	// Both callbacks ran before Set returned, in subscription order.
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestUnsubscribe(t *testing.T) {
	s := New()

	var count int
	sub := s.Subscribe("k", func(path string, value any) { count++ })

	s.Set("k", 1)
	s.Unsubscribe(sub)
	s.Set("k", 2)

	assert.Equal(t, 1, count)

	// Unsubscribing twice is harmless.
	s.Unsubscribe(sub)
}

func TestCallbackMayReenterStore(t *testing.T) {
	s := New()

	s.Subscribe("trigger", func(path string, value any) {
		s.Set("derived", "computed")
	})

	s.Set("trigger", 1)

	v, ok := s.Get("derived")
	require.True(t, ok)
	assert.Equal(t, "computed", v)
}

func TestHistoryBounded(t *testing.T) {
	s := New()

	for i := 0; i < historyLimit+10; i++ {
		s.Set("k", i)
	}

	h := s.History()
	require.Len(t, h, historyLimit)
	assert.Equal(t, 10, h[0].Value)
	assert.Equal(t, historyLimit+9, h[len(h)-1].Value)
}

func TestConcurrentSetsDoNotRace(t *testing.T) {
	s := New()
	s.Subscribe("k", func(path string, value any) {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Set("k", fmt.Sprintf("%d-%d", n, j))
			}
		}(i)
	}
	wg.Wait()

	_, ok := s.Get("k")
	assert.True(t, ok)
	assert.Len(t, s.History(), historyLimit)
}
