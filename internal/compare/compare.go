// Package compare detects changes between two parsed schedule snapshots.
// Entities pair up by identity (formation name, day date, subject slot) and
// then compare structurally by hash, with Raw source text excluded so
// cosmetic whitespace shuffles in the document do not count as changes.
package compare

import (
	"github.com/mitchellh/hashstructure/v2"
)

// hashOptions makes time.Time hash through its Stringer instead of its
// unexported fields.
var hashOptions = &hashstructure.HashOptions{UseStringer: true}

func structuralHash(v any) uint64 {
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, hashOptions)
	if err != nil {
		return 0
	}
	return h
}

// Primitive carries both sides of a changed scalar value.
type Primitive[T any] struct {
	Old *T `json:"old"`
	New *T `json:"new"`
}

// NewPrimitive pairs two values; nil marks an absent side.
func NewPrimitive[T any](oldV, newV *T) Primitive[T] {
	return Primitive[T]{Old: oldV, New: newV}
}

// Changed reports whether the two sides differ structurally.
func (p Primitive[T]) Changed() bool {
	switch {
	case p.Old == nil && p.New == nil:
		return false
	case p.Old == nil || p.New == nil:
		return true
	default:
		return structuralHash(*p.Old) != structuralHash(*p.New)
	}
}

// Changes is a flat diff of two entity slices paired by key. The four
// buckets are disjoint and together cover the key union of both sides.
type Changes[T any] struct {
	Appeared    []T `json:"appeared"`
	Disappeared []T `json:"disappeared"`
	Changed     []T `json:"changed"`
	Unchanged   []T `json:"unchanged"`
}

// HasChanges reports whether any bucket besides Unchanged is non-empty.
func (c Changes[T]) HasChanges() bool {
	return len(c.Appeared) > 0 || len(c.Disappeared) > 0 || len(c.Changed) > 0
}

// Flat diffs two slices. Entities present only in new appear, present only
// in old disappear, and present in both land in Changed or Unchanged by
// hash. The new-side value represents each shared pair.
func Flat[T any](oldS, newS []T, key func(T) string) Changes[T] {
	var c Changes[T]

	oldByKey := indexByKey(oldS, key)
	newByKey := indexByKey(newS, key)

	for _, n := range newS {
		o, ok := oldByKey[key(n)]
		switch {
		case !ok:
			c.Appeared = append(c.Appeared, n)
		case structuralHash(o) != structuralHash(n):
			c.Changed = append(c.Changed, n)
		default:
			c.Unchanged = append(c.Unchanged, n)
		}
	}
	for _, o := range oldS {
		if _, ok := newByKey[key(o)]; !ok {
			c.Disappeared = append(c.Disappeared, o)
		}
	}

	return c
}

// detailed diffs two slices like Flat but descends into changed pairs,
// producing a detail value per pair. Pairs whose detail reports no changes
// are dropped.
func detailed[T any, D interface{ HasChanges() bool }](oldS, newS []T, key func(T) string, descend func(oldV, newV T) D) (appeared, disappeared []T, changed []D) {
	oldByKey := indexByKey(oldS, key)
	newByKey := indexByKey(newS, key)

	for _, n := range newS {
		o, ok := oldByKey[key(n)]
		if !ok {
			appeared = append(appeared, n)
			continue
		}
		if structuralHash(o) == structuralHash(n) {
			continue
		}
		if d := descend(o, n); d.HasChanges() {
			changed = append(changed, d)
		}
	}
	for _, o := range oldS {
		if _, ok := newByKey[key(o)]; !ok {
			disappeared = append(disappeared, o)
		}
	}

	return appeared, disappeared, changed
}

func indexByKey[T any](s []T, key func(T) string) map[string]T {
	m := make(map[string]T, len(s))
	for _, v := range s {
		m[key(v)] = v
	}
	return m
}
