package vote

// Direction is a requested vote direction. There is no retract input:
// repeating a direction is idempotent and the opposite direction flips
// the existing row in place.
type Direction int

const (
	Up   Direction = 1
	Down Direction = -1
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

// Action is what happens to the vote row for one cast.
type Action int

const (
	ActionNone Action = iota
	ActionInsert
	ActionUpdate
)

// Change is the outcome of one transition decision: the vote row action,
// the value the row ends up with, and the relative adjustment to apply
// to the post's points.
type Change struct {
	Action Action
	Value  int
	Delta  int
}

// Decide maps (current vote state, requested direction) onto the change
// to apply:
//
//	current  requested  row action    points delta
//	none     up         insert +1     +1
//	none     down       insert -1     -1
//	up       up         none           0
//	down     down       none           0
//	up       down       update to -1  -2
//	down     up         update to +1  +2
//
// A flip moves the row's contribution from one side to the other, hence
// the doubled delta.
func Decide(current int, hasVote bool, requested Direction) Change {
	value := int(requested)
	switch {
	case !hasVote:
		return Change{Action: ActionInsert, Value: value, Delta: value}
	case current == value:
		return Change{Action: ActionNone, Value: current}
	default:
		return Change{Action: ActionUpdate, Value: value, Delta: 2 * value}
	}
}
