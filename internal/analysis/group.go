package analysis

import (
	"cmp"
	"slices"

	"github.com/Veraticus/salesflow/internal/model"
)

// group is a map from a grouping key to an accumulator that remembers the
// order in which keys were first seen.
type group[K comparable, A any] struct {
	index map[K]int
	keys  []K
	accs  []A
}

func newGroup[K comparable, A any]() *group[K, A] {
	return &group[K, A]{index: make(map[K]int)}
}

// fold applies step to the accumulator of key, creating it with init first.
func (g *group[K, A]) fold(key K, tx model.Transaction, init func() A, step func(A, model.Transaction) A) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.keys)
		g.index[key] = i
		g.keys = append(g.keys, key)
		g.accs = append(g.accs, init())
	}
	g.accs[i] = step(g.accs[i], tx)
}

// each visits entries in first-encountered order.
func (g *group[K, A]) each(fn func(key K, acc A)) {
	for i, key := range g.keys {
		fn(key, g.accs[i])
	}
}

func (g *group[K, A]) len() int {
	return len(g.keys)
}

// groupBy folds every transaction into the accumulator of its key.
func groupBy[K comparable, A any](txns []model.Transaction, key func(model.Transaction) K, init func() A, step func(A, model.Transaction) A) *group[K, A] {
	g := newGroup[K, A]()
	for _, tx := range txns {
		g.fold(key(tx), tx, init, step)
	}
	return g
}

// ranked pairs an item with its encounter index so that sorts have an
// explicit, platform-independent tie-break.
type ranked[T any] struct {
	item  T
	order int
}

// sortByMetric orders items by metric (descending when desc is set) and
// breaks ties by encounter order.
func sortByMetric[T any, M cmp.Ordered](items []T, metric func(T) M, desc bool) []T {
	rs := make([]ranked[T], len(items))
	for i, it := range items {
		rs[i] = ranked[T]{item: it, order: i}
	}

	slices.SortFunc(rs, func(a, b ranked[T]) int {
		c := cmp.Compare(metric(a.item), metric(b.item))
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})

	out := make([]T, len(rs))
	for i, r := range rs {
		out[i] = r.item
	}
	return out
}
