package session

import (
	"sort"
	"sync"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore[string, int]()

	if _, ok := store.Get("a"); ok {
		t.Error("Expected empty store")
	}

	store.Put("a", 1)
	store.Put("a", 2)
	if v, ok := store.Get("a"); !ok || v != 2 {
		t.Errorf("Expected 2, got %d (%v)", v, ok)
	}

	if store.PutIfAbsent("a", 3) {
		t.Error("Expected PutIfAbsent to refuse an existing key")
	}
	if !store.PutIfAbsent("b", 3) {
		t.Error("Expected PutIfAbsent to store a new key")
	}

	values := store.Values()
	sort.Ints(values)
	if len(values) != 2 || values[0] != 2 || values[1] != 3 {
		t.Errorf("Unexpected values %v", values)
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", store.Len())
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore[int, int]()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Put(i*100+j, j)
				store.Get(j)
				store.Values()
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 2000 {
		t.Errorf("Expected 2000 entries, got %d", store.Len())
	}
}
