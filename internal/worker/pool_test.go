package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExecuteKeepsOrder(t *testing.T) {
	var running, peak atomic.Int32
	pool := NewPool(3, func(_ context.Context, n int) (int, error) {
		cur := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		if n == 4 {
			return 0, errors.New("four")
		}
		return n * n, nil
	})

	tasks := pool.Execute(context.Background(), []int{1, 2, 3, 4, 5})

	var got []int
	for _, task := range tasks {
		got = append(got, task.Result)
	}
	if diff := cmp.Diff([]int{1, 4, 9, 0, 25}, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if err := Errors(tasks); err == nil || err.Error() != "four" {
		t.Errorf("Errors = %v", err)
	}
	if peak.Load() > 3 {
		t.Errorf("peak concurrency %d exceeds 3 workers", peak.Load())
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	pool := NewPool(1, func(context.Context, string) (string, error) {
		calls++
		return "x", nil
	})
	tasks := pool.Execute(ctx, []string{"a", "b"})

	for _, task := range tasks {
		if !errors.Is(task.Err, context.Canceled) {
			t.Errorf("task %q err = %v", task.Input, task.Err)
		}
	}
	if calls != 0 {
		t.Errorf("cancelled pool processed %d inputs", calls)
	}
}

func TestBatch(t *testing.T) {
	got := Batch([]int{1, 2, 3, 4, 5}, 2)
	want := [][]int{{1, 2}, {3, 4}, {5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Batch mismatch (-want +got):\n%s", diff)
	}
	if got := Batch([]int(nil), 3); got != nil {
		t.Errorf("Batch(nil) = %v", got)
	}
}
