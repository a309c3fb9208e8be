package party

import "fmt"

// Role is a party's position in the run topology. Exactly one coordinator
// exists per run, known in advance; everyone else participates.
type Role int

const (
	RoleCoordinator Role = iota + 1
	RoleParticipant
)

func (r Role) String() string {
	switch r {
	case RoleCoordinator:
		return "coordinator"
	case RoleParticipant:
		return "participant"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole maps a config role string to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "coordinator":
		return RoleCoordinator, nil
	case "participant":
		return RoleParticipant, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// State is one step of the run sequence.
type State int

const (
	StateInit State = iota + 1
	StateFetch
	StateWrite
	StateAggregate
	StateGenerateTestData
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateFetch:
		return "fetch"
	case StateWrite:
		return "write"
	case StateAggregate:
		return "aggregate"
	case StateGenerateTestData:
		return "generate_test_data"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type transitionKey struct {
	from State
	role Role
}

// transitions declares every (state, role) edge. The map form makes "at
// most one transition per pair" structural; validateTransitions adds the
// "at least one along each role's reachable path" half.
var transitions = map[transitionKey]State{
	{StateInit, RoleCoordinator}:  StateFetch,
	{StateInit, RoleParticipant}:  StateFetch,
	{StateFetch, RoleCoordinator}: StateWrite,
	{StateFetch, RoleParticipant}: StateWrite,
	{StateWrite, RoleCoordinator}: StateAggregate,
	{StateWrite, RoleParticipant}: StateTerminal,

	// Coordinator-only tail. The participant entries simply do not exist;
	// a participant can never be routed here.
	{StateAggregate, RoleCoordinator}:        StateGenerateTestData,
	{StateGenerateTestData, RoleCoordinator}: StateTerminal,
}

// nextState resolves the successor of (from, role).
func nextState(from State, role Role) (State, bool) {
	next, ok := transitions[transitionKey{from, role}]
	return next, ok
}

// validateTransitions walks each role's path from Init and errors unless
// every reachable non-terminal state has exactly one outgoing transition
// for that role. Run at Runner construction so a broken table fails before
// any run starts, not in the middle of one.
func validateTransitions() error {
	for _, role := range []Role{RoleCoordinator, RoleParticipant} {
		visited := map[State]bool{}
		state := StateInit
		for state != StateTerminal {
			if visited[state] {
				return fmt.Errorf("transition table: cycle at state %s for role %s", state, role)
			}
			visited[state] = true

			next, ok := nextState(state, role)
			if !ok {
				return fmt.Errorf("transition table: no transition from %s for role %s", state, role)
			}
			state = next
		}
	}
	return nil
}
