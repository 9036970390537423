// Package position keeps sibling lists (columns of a board, cards of a column)
// densely numbered from zero.
//
// Every function is pure: inputs are never mutated and nothing here touches
// the database, so callers load a list, compute the new order and persist
// only the positions that changed.
package position

// Append returns the position for an item added to the end of a list that
// already holds existingCount items.
func Append(existingCount int) int {
	if existingCount < 0 {
		return 0
	}
	return existingCount
}

// Move removes id from order (if present) and inserts it at target.
// target is clamped to [0, len(order)] after the removal, so any index past
// the end appends.
func Move[ID comparable](order []ID, id ID, target int) []ID {
	rest := Remove(order, id)

	if target < 0 {
		target = 0
	}
	if target > len(rest) {
		target = len(rest)
	}

	out := make([]ID, 0, len(rest)+1)
	out = append(out, rest[:target]...)
	out = append(out, id)
	out = append(out, rest[target:]...)
	return out
}

// Remove returns order without id, keeping relative order.
func Remove[ID comparable](order []ID, id ID) []ID {
	out := make([]ID, 0, len(order))
	for _, v := range order {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Compact returns a copy of order. Positions derived from it with Positions
// are contiguous again after a deletion left a gap.
func Compact[ID comparable](order []ID) []ID {
	out := make([]ID, len(order))
	copy(out, order)
	return out
}

// Positions maps each id to its index in order.
func Positions[ID comparable](order []ID) map[ID]int {
	out := make(map[ID]int, len(order))
	for i, id := range order {
		out[id] = i
	}
	return out
}

// Changed returns the ids whose index in order differs from current.
// Ids missing from current are always reported.
func Changed[ID comparable](order []ID, current map[ID]int) map[ID]int {
	out := make(map[ID]int)
	for i, id := range order {
		if pos, ok := current[id]; !ok || pos != i {
			out[id] = i
		}
	}
	return out
}

// Reorder applies a client-submitted ordering to current.
//
// Submitted ids that are not in current are ignored and repeated ids count
// once. Ids of current that were not submitted keep their relative order and
// follow the submitted ones, so the result is always a permutation of current.
func Reorder[ID comparable](current, submitted []ID) []ID {
	known := make(map[ID]bool, len(current))
	for _, id := range current {
		known[id] = true
	}

	seen := make(map[ID]bool, len(current))
	out := make([]ID, 0, len(current))
	for _, id := range submitted {
		if known[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range current {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// IsContiguous reports whether positions is exactly {0, ..., n-1} in any order.
func IsContiguous(positions []int) bool {
	seen := make([]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(positions) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}
