package cache

import (
    "fmt"
    "sync"
    "testing"
)

func TestBounded_EvictsOldestInsertion(t *testing.T) {
    var evicted []string
    c := New[string, int](3, WithEvictHook[string, int](func(k string) { evicted = append(evicted, k) }))

    c.Put("a", 1)
    c.Put("b", 2)
    c.Put("c", 3)
    // reads must not refresh position
    if v, ok := c.Get("a"); !ok || v != 1 {
        t.Fatalf("get a: %v %v", v, ok)
    }
    c.Put("d", 4)

    if _, ok := c.Get("a"); ok {
        t.Fatalf("a should have been evicted")
    }
    if got := c.Keys(); fmt.Sprint(got) != "[b c d]" {
        t.Fatalf("keys: %v", got)
    }
    if fmt.Sprint(evicted) != "[a]" {
        t.Fatalf("evicted: %v", evicted)
    }
}

func TestBounded_RePutMovesToNewest(t *testing.T) {
    c := New[string, int](2)
    c.Put("a", 1)
    c.Put("b", 2)
    c.Put("a", 10)
    c.Put("c", 3)

    if _, ok := c.Get("b"); ok {
        t.Fatalf("b should have been evicted")
    }
    if v, _ := c.Get("a"); v != 10 {
        t.Fatalf("a: want 10, got %d", v)
    }
    if c.Len() != 2 {
        t.Fatalf("len: %d", c.Len())
    }
}

func TestBounded_DeleteAndClear(t *testing.T) {
    c := New[string, int](0)
    for i := 0; i < 50; i++ {
        c.Put(fmt.Sprint(i), i)
    }
    if c.Len() != 50 {
        t.Fatalf("unbounded cache should keep all, got %d", c.Len())
    }
    c.Delete("10")
    c.Delete("missing")
    if _, ok := c.Get("10"); ok || c.Len() != 49 {
        t.Fatalf("delete failed: len=%d", c.Len())
    }
    c.Clear()
    if c.Len() != 0 || len(c.Keys()) != 0 {
        t.Fatalf("clear failed")
    }
    c.Put("x", 1)
    if v, ok := c.Get("x"); !ok || v != 1 {
        t.Fatalf("cache unusable after clear")
    }
}

func TestBounded_Concurrent(t *testing.T) {
    c := New[int, int](16)
    var wg sync.WaitGroup
    for g := 0; g < 8; g++ {
        wg.Add(1)
        go func(g int) {
            defer wg.Done()
            for i := 0; i < 200; i++ {
                c.Put(g*1000+i, i)
                c.Get(i)
            }
        }(g)
    }
    wg.Wait()
    if c.Len() != 16 {
        t.Fatalf("want 16 entries, got %d", c.Len())
    }
}
