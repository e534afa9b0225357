package cache

import (
	"errors"
	"testing"
)

func TestMemo_GetSet(t *testing.T) {
	m := New[string, int]()

	if _, ok := m.Get("a"); ok {
		t.Error("expected miss on empty memo")
	}
	m.Set("a", 1)
	v, ok := m.Get("a")
	if !ok || v != 1 {
		t.Errorf("expected (1, true), got (%d, %v)", v, ok)
	}

	stats := m.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestMemo_GetOrCompute(t *testing.T) {
	m := New[[2]int, byte]()
	calls := 0
	fn := func() (byte, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := m.GetOrCompute([2]int{1, 2}, fn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected fn to run once, ran %d times", calls)
	}
}

func TestMemo_GetOrComputeErrorNotCached(t *testing.T) {
	m := New[string, int]()
	boom := errors.New("boom")

	if _, err := m.GetOrCompute("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected failed computation not to be cached, have %d entries", m.Len())
	}
}
