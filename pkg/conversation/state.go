package conversation

import "fmt"

// State is the processing state of one intercepted request.
type State int

// Exchange states. Every exchange starts in StateCreated and ends in
// StateDone or StateAborted.
const (
	StateCreated State = iota
	StateDequeuing
	StateNoExpectationLeft
	StateHasExpectation
	StateNormalizingActual
	StatePerRequestCheck
	StateResponding
	StateDone
	StateAborted
)

var stateNames = [...]string{
	StateCreated:           "created",
	StateDequeuing:         "dequeuing",
	StateNoExpectationLeft: "no-expectation-left",
	StateHasExpectation:    "has-expectation",
	StateNormalizingActual: "normalizing-actual",
	StatePerRequestCheck:   "per-request-check",
	StateResponding:        "responding",
	StateDone:              "done",
	StateAborted:           "aborted",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}

var next = map[State][]State{
	StateCreated:           {StateDequeuing},
	StateDequeuing:         {StateNoExpectationLeft, StateHasExpectation},
	StateNoExpectationLeft: {StateDone},
	StateHasExpectation:    {StateNormalizingActual},
	StateNormalizingActual: {StatePerRequestCheck},
	StatePerRequestCheck:   {StateResponding},
	StateResponding:        {StateDone},
}

// CanTransition reports whether an exchange in state s may move to to.
// StateAborted is reachable from every non-terminal state.
func (s State) CanTransition(to State) bool {
	if s.Terminal() {
		return false
	}
	if to == StateAborted {
		return true
	}
	for _, candidate := range next[s] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Transition describes one exchange state change.
type Transition struct {
	InvocationID string
	ExchangeID   string
	Sequence     int // position of the request within the invocation
	From         State
	To           State
	Err          error // set when To is StateAborted
}
