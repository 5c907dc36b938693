package game

import "sort"

// rotate shifts every entry of a completed round's submission table to
// the next slot index: slot k's content moves to slot k+1, and the
// highest slot wraps to slot 0. Each player therefore receives what
// their preceding neighbour just produced.
//
// The input must hold exactly one entry per roster slot; the caller
// only invokes it once round completeness is confirmed.
func rotate(m map[int]string) map[int]string {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make(map[int]string, len(m))
	for _, k := range keys {
		next := k + 1
		if k == len(m)-1 {
			next = 0
		}
		out[next] = m[k]
	}
	return out
}
