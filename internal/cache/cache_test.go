package cache

import (
	"context"
	"sync"
	"testing"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("empty cache returned a hit")
	}
	if err := m.Set(ctx, "k", "значення"); err != nil {
		t.Fatal(err)
	}
	if v, ok := m.Get(ctx, "k"); !ok || v != "значення" {
		t.Errorf("Get = %q, %v", v, ok)
	}

	m.load(map[string]string{"a": "1", "k": "2"})
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	if v, _ := m.Get(ctx, "k"); v != "2" {
		t.Errorf("load did not overwrite: %q", v)
	}
}

func TestMemoryConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Set(ctx, "shared", "v")
				m.Get(ctx, "shared")
			}
		}()
	}
	wg.Wait()

	if m.Len() != 1 {
		t.Errorf("Len = %d", m.Len())
	}
}
