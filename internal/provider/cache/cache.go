package cache

import (
    "container/list"
    "sync"
)

// entry stores one cached value; elements in order hold *entry.
type entry[K comparable, V any] struct {
    key   K
    value V
}

// Bounded is an insertion-ordered map holding at most MaxItems keys.
// Entries never expire; once the bound is exceeded the oldest insertion
// is evicted. Safe for concurrent use.
type Bounded[K comparable, V any] struct {
    maxItems int
    onEvict  func(K)

    mu    sync.Mutex
    items map[K]*list.Element
    order *list.List // front = oldest
}

// Option configures a Bounded cache.
type Option[K comparable, V any] func(*Bounded[K, V])

// WithEvictHook registers fn to be called (under the cache lock) for every evicted key.
func WithEvictHook[K comparable, V any](fn func(K)) Option[K, V] {
    return func(b *Bounded[K, V]) { b.onEvict = fn }
}

// New creates a cache bounded to maxItems; maxItems <= 0 means unbounded.
func New[K comparable, V any](maxItems int, opts ...Option[K, V]) *Bounded[K, V] {
    b := &Bounded[K, V]{
        maxItems: maxItems,
        items:    make(map[K]*list.Element),
        order:    list.New(),
    }
    for _, o := range opts {
        o(b)
    }
    return b
}

// Get returns the value for key. Reads do not change eviction order.
func (b *Bounded[K, V]) Get(key K) (V, bool) {
    b.mu.Lock()
    defer b.mu.Unlock()
    if el, ok := b.items[key]; ok {
        return el.Value.(*entry[K, V]).value, true
    }
    var zero V
    return zero, false
}

// Put stores value under key. Re-putting a key counts as a fresh insertion.
func (b *Bounded[K, V]) Put(key K, value V) {
    b.mu.Lock()
    defer b.mu.Unlock()
    if el, ok := b.items[key]; ok {
        el.Value.(*entry[K, V]).value = value
        b.order.MoveToBack(el)
        return
    }
    b.items[key] = b.order.PushBack(&entry[K, V]{key: key, value: value})
    for b.maxItems > 0 && b.order.Len() > b.maxItems {
        oldest := b.order.Front()
        e := b.order.Remove(oldest).(*entry[K, V])
        delete(b.items, e.key)
        if b.onEvict != nil {
            b.onEvict(e.key)
        }
    }
}

// Delete removes key if present.
func (b *Bounded[K, V]) Delete(key K) {
    b.mu.Lock()
    defer b.mu.Unlock()
    if el, ok := b.items[key]; ok {
        b.order.Remove(el)
        delete(b.items, key)
    }
}

// Clear drops every entry.
func (b *Bounded[K, V]) Clear() {
    b.mu.Lock()
    defer b.mu.Unlock()
    b.items = make(map[K]*list.Element)
    b.order.Init()
}

func (b *Bounded[K, V]) Len() int {
    b.mu.Lock()
    defer b.mu.Unlock()
    return b.order.Len()
}

// Keys returns keys from oldest to newest insertion.
func (b *Bounded[K, V]) Keys() []K {
    b.mu.Lock()
    defer b.mu.Unlock()
    out := make([]K, 0, b.order.Len())
    for el := b.order.Front(); el != nil; el = el.Next() {
        out = append(out, el.Value.(*entry[K, V]).key)
    }
    return out
}
