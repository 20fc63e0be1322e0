package rptlog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OwnerLoop_Start(t *testing.T) {
	l := NewOwnerLoop(nil)
	assert.False(t, l.IsActive())
	require.NoError(t, l.Start())
	assert.True(t, l.IsActive())
	err := l.Start()
	if assert.Error(t, err) {
		assert.Equal(t, _ERROR_MESSAGE_LOOP_STARTED, err.Error())
	}
	l.StopAndWait()
	assert.False(t, l.IsActive())
	// restart after stop
	require.NoError(t, l.Start())
	l.StopAndWait()
}

func Test_OwnerLoop_Schedule(t *testing.T) {
	t.Run("inactive", func(t *testing.T) {
		l := NewOwnerLoop(nil)
		err := l.Schedule(func(context.Context) {})
		if assert.Error(t, err) {
			assert.Equal(t, _ERROR_MESSAGE_LOOP_INACTIVE, err.Error())
		}
	})
	t.Run("nil_action", func(t *testing.T) {
		l := NewOwnerLoop(nil)
		l.Start()
		defer l.StopAndWait()
		err := l.Schedule(nil)
		if assert.Error(t, err) {
			assert.Equal(t, _ERROR_MESSAGE_ACTION_IS_NIL, err.Error())
		}
	})
	t.Run("fifo", func(t *testing.T) {
		l := NewOwnerLoop(nil)
		l.Start()
		var got []int // touched only on the owner goroutine
		for i := range 1000 {
			require.NoError(t, l.Schedule(func(context.Context) { got = append(got, i) }))
		}
		l.StopAndWait()
		require.Len(t, got, 1000)
		for i, v := range got {
			assert.Equal(t, i, v)
		}
	})
	t.Run("after_stop", func(t *testing.T) {
		l := NewOwnerLoop(nil)
		l.Start()
		l.StopAndWait()
		assert.Error(t, l.Schedule(func(context.Context) {}))
	})
}

func Test_OwnerLoop_Stop_drains(t *testing.T) {
	l := NewOwnerLoop(nil)
	l.Start()
	gate := make(chan struct{})
	count := 0
	l.Schedule(func(context.Context) { <-gate })
	for range 50 {
		l.Schedule(func(context.Context) { count++ })
	}
	l.Stop()
	assert.Error(t, l.Schedule(func(context.Context) { count += 1000 }), "stopping loop accepted work")
	close(gate)
	l.Wait()
	assert.Equal(t, 50, count)
	assert.Zero(t, l.Pending())
}

func Test_OwnerLoop_restart_while_draining(t *testing.T) {
	l := NewOwnerLoop(nil)
	require.NoError(t, l.Start())
	gate := make(chan struct{})
	var running atomic.Int32
	overlaps := 0 // touched only on owner goroutines
	l.Schedule(func(context.Context) {
		running.Add(1)
		<-gate
		running.Add(-1)
	})
	l.Stop()
	err := l.Start()
	if assert.Error(t, err, "restart accepted while the old goroutine drains") {
		assert.Equal(t, _ERROR_MESSAGE_LOOP_STOPPING, err.Error())
	}
	assert.False(t, l.IsActive())
	assert.Error(t, l.Schedule(func(context.Context) {}))
	close(gate)
	l.Wait()

	// a clean restart leaves exactly one owner goroutine and stays active
	require.NoError(t, l.Start())
	assert.True(t, l.IsActive())
	for range 100 {
		require.NoError(t, l.Schedule(func(context.Context) {
			if running.Add(1) > 1 {
				overlaps++
			}
			running.Add(-1)
		}))
	}
	l.StopAndWait()
	assert.Zero(t, overlaps, "actions ran concurrently on two owner goroutines")
	assert.False(t, l.IsActive())
	require.NoError(t, l.Start())
	l.StopAndWait()
}

func Test_OwnerLoop_IsOwner(t *testing.T) {
	l1 := NewOwnerLoop(nil)
	l2 := NewOwnerLoop(nil)
	l1.Start()
	defer l1.StopAndWait()
	assert.False(t, l1.IsOwner(context.Background()))
	assert.False(t, l1.IsOwner(nil))
	assert.False(t, l1.IsOwner(l2.ctx), "foreign owner context accepted")

	result := make(chan [2]bool, 1)
	l1.Schedule(func(ctx context.Context) {
		result <- [2]bool{l1.IsOwner(ctx), l2.IsOwner(ctx)}
	})
	select {
	case r := <-result:
		assert.True(t, r[0], "action context is not the owner")
		assert.False(t, r[1])
	case <-time.After(5 * time.Second):
		t.Fatal("action was not executed")
	}
}

func Test_OwnerLoop_panic(t *testing.T) {
	ferr := &FakeWriter{}
	l := NewOwnerLoop(ferr)
	l.Start()
	ran := false
	l.Schedule(func(context.Context) { panic(panicStr) })
	l.Schedule(func(context.Context) { ran = true })
	l.StopAndWait()
	assert.True(t, ran, "loop died after a panicking action")
	assert.Contains(t, ferr.String(), "panic running owner action: `"+panicStr+"`\n")
}

func Test_OwnerLoop_Parallel_producers(t *testing.T) {
	const producers, perProducer = 16, 500
	l := NewOwnerLoop(nil)
	l.Start()
	seen := make([][]int, producers) // touched only on the owner goroutine
	var wg sync.WaitGroup
	for p := range producers {
		wg.Go(func() {
			for i := range perProducer {
				l.Schedule(func(context.Context) { seen[p] = append(seen[p], i) })
			}
		})
	}
	wg.Wait()
	l.StopAndWait()
	for p := range producers {
		require.Len(t, seen[p], perProducer)
		for i, v := range seen[p] {
			assert.Equal(t, i, v, "producer order broken")
		}
	}
}
