package brackets

// Keyed is anything that can be placed into a numbered bracket.
// ok is false when the record carries no usable bracket number.
type Keyed interface {
	BracketKey() (key int, ok bool)
}

// Group is one bracket's worth of records, in input order.
type Group[T Keyed] struct {
	Key        int  `json:"bracket"`
	Unassigned bool `json:"unassigned,omitempty"`
	Members    []T  `json:"members"`
}

// GroupByBracket partitions items by bracket number.
//
// Groups come back in the order their key was first seen and members keep
// their input order. Items without a bracket number are collected into a
// single Unassigned group placed where the first of them appeared. Nothing is
// dropped or duplicated.
func GroupByBracket[T Keyed](items []T) []Group[T] {
	groups := make([]Group[T], 0)
	index := make(map[int]int)
	unassigned := -1

	for _, item := range items {
		key, ok := item.BracketKey()
		if !ok {
			if unassigned < 0 {
				unassigned = len(groups)
				groups = append(groups, Group[T]{Unassigned: true})
			}
			groups[unassigned].Members = append(groups[unassigned].Members, item)
			continue
		}

		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group[T]{Key: key})
		}
		groups[i].Members = append(groups[i].Members, item)
	}
	return groups
}

// Keys returns the group keys in iteration order. Unassigned groups report 0.
func Keys[T Keyed](groups []Group[T]) []int {
	keys := make([]int, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}
