// Package match computes which entities survive a set of user-chosen
// feature constraints. It only reads the loaded key, keeps no state of its
// own, and is safe to call concurrently.
package match

import (
	"strconv"
	"strings"

	"taxakey/internal/key"
)

// Constraint is one chosen feature value. For state features the presence
// of the constraint is the choice and Value is ignored; for numeric
// features Value carries the user-supplied number.
type Constraint struct {
	Value string
}

type Constraints map[key.FeatureID]Constraint

// Set is an id set; the zero value of the map entry carries no meaning.
type Set map[key.EntityID]struct{}

func (s Set) Has(id key.EntityID) bool {
	_, ok := s[id]
	return ok
}

// Result partitions all entity ids into direct matches, ancestor groups
// kept because of a surviving descendant, and everything else.
type Result struct {
	Direct    Set
	Indirect  Set
	Discarded Set
}

// Compute applies the chosen constraints to every entity. With no
// constraints chosen, every entity is a direct match. The result depends
// only on the inputs, never on map iteration order.
func Compute(k *key.Key, chosen Constraints) Result {
	result := Result{
		Direct:    Set{},
		Indirect:  Set{},
		Discarded: Set{},
	}

	if len(chosen) == 0 {
		for id := range k.Entities {
			result.Direct[id] = struct{}{}
		}
		return result
	}

	for id := range k.Entities {
		if !discardedBy(k, id, chosen) {
			result.Direct[id] = struct{}{}
		}
	}

	remaining := Set{}
	for id := range result.Direct {
		remaining[id] = struct{}{}
	}

	// Fixpoint over tree depth: each pass promotes group nodes with at
	// least one remaining child, so ancestors several levels above a
	// surviving leaf are all retained.
	for {
		added := false
		work := append([]*key.EntityNode{}, k.EntityTree...)
		for len(work) > 0 {
			node := work[len(work)-1]
			work = work[:len(work)-1]
			work = append(work, node.Children...)

			if !node.IsGroup || remaining.Has(node.ID) {
				continue
			}
			for _, child := range node.Children {
				if remaining.Has(child.ID) {
					result.Indirect[node.ID] = struct{}{}
					remaining[node.ID] = struct{}{}
					added = true
					break
				}
			}
		}
		if !added {
			break
		}
	}

	for id := range k.Entities {
		if !remaining.Has(id) {
			result.Discarded[id] = struct{}{}
		}
	}

	return result
}

// discardedBy reports whether any chosen constraint mismatches the entity.
// The first mismatch settles it.
func discardedBy(k *key.Key, id key.EntityID, chosen Constraints) bool {
	scores := k.Scores[id]
	for featureID, constraint := range chosen {
		score, ok := scores[featureID]
		if !ok {
			return true
		}
		switch score.Kind {
		case key.ScoreState:
			// Only an explicit absence eliminates: codes 1-5,
			// including uncertain and misinterpretation codes, are
			// compatible with the choice.
			if score.Value == "0" {
				return true
			}
		case key.ScoreNumeric:
			value, err := strconv.ParseFloat(strings.TrimSpace(constraint.Value), 64)
			if err != nil {
				return true
			}
			if value < score.Min || value > score.Max {
				return true
			}
		}
	}
	return false
}
