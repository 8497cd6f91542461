// Package analytics computes the dashboard summary tables from an order dataset.
//
// Every table is a pure reduction over the immutable dataset built on Fold,
// so the five components can run in any order or concurrently.
package analytics

import "ecomdash/internal/core"

// Group is one key together with its folded accumulator.
type Group[K comparable, A any] struct {
	Key K
	Acc A
}

// Fold groups lines by key and reduces each group with step, starting from
// init(). Groups are returned in the order their key was first seen.
func Fold[K comparable, A any](
	lines []core.OrderLine,
	key func(core.OrderLine) K,
	init func() A,
	step func(A, core.OrderLine) A,
) []Group[K, A] {
	index := make(map[K]int)
	var groups []Group[K, A]
	for _, l := range lines {
		k := key(l)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, A]{Key: k, Acc: init()})
		}
		groups[i].Acc = step(groups[i].Acc, l)
	}
	return groups
}

// Filter returns the lines for which keep is true, preserving order.
func Filter(lines []core.OrderLine, keep func(core.OrderLine) bool) []core.OrderLine {
	var out []core.OrderLine
	for _, l := range lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// Reducers shared by the components.

func count[A ~int](acc A, _ core.OrderLine) A { return acc + 1 }

func zero[A any]() A {
	var z A
	return z
}

// nullKey maps a nullable label to a comparable group key.
type nullKey struct {
	value string
	valid bool
}

func keyOf(s core.NullString) nullKey {
	return nullKey{value: s.String, valid: s.Valid}
}

func (k nullKey) ptr() *string {
	if !k.valid {
		return nil
	}
	v := k.value
	return &v
}

func customerKey(l core.OrderLine) string { return l.CustomerID }
