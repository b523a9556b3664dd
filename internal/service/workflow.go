package service

// The enrollment flow is driven as an explicit state machine rather than ad
// hoc in-flight flags. nextState is a pure function from (state, event) to
// state; the orchestration methods in enrollment.go advance through it and
// fail fast on an out-of-order step.

// FlowState is one state of the enrollment workflow.
type FlowState string

const (
	StateStart              FlowState = "START"
	StateResolving          FlowState = "RESOLVING"
	StateGranted            FlowState = "GRANTED"
	StateFreeSubmitting     FlowState = "FREE_SUBMITTING"
	StateAwaitingChoice     FlowState = "AWAITING_CHANNEL_CHOICE"
	StateGatewayRedirecting FlowState = "GATEWAY_REDIRECTING"
	StateManualQuoting      FlowState = "MANUAL_QUOTING"
	StateManualSubmitting   FlowState = "MANUAL_SUBMITTING"
	StateRedirected         FlowState = "REDIRECTED" // browser handed to the gateway; confirmation is webhook-driven
	StateActive             FlowState = "ACTIVE"
	StatePending            FlowState = "PENDING"
	StateFailed             FlowState = "FAILED"
)

// FlowEvent is an input that moves the workflow between states.
type FlowEvent string

const (
	EventBegin           FlowEvent = "BEGIN"
	EventUnauthenticated FlowEvent = "UNAUTHENTICATED"
	EventEligible        FlowEvent = "ELIGIBLE"         // owner or already enrolled
	EventFreeCourse      FlowEvent = "FREE_COURSE"      // price == 0
	EventPaymentRequired FlowEvent = "PAYMENT_REQUIRED" // price > 0, not enrolled
	EventReviewDetected  FlowEvent = "REVIEW_DETECTED" // a manual payment is already under review
	EventChoseGateway    FlowEvent = "CHOSE_GATEWAY"
	EventChoseManual     FlowEvent = "CHOSE_MANUAL"
	EventQuoteReady      FlowEvent = "QUOTE_READY" // includes fallback and unavailable quotes
	EventSubmitted       FlowEvent = "SUBMITTED"
	EventDuplicate       FlowEvent = "DUPLICATE" // racing enrollment already exists
	EventRedirectIssued  FlowEvent = "REDIRECT_ISSUED"
	EventProofAccepted   FlowEvent = "PROOF_ACCEPTED"
	EventStepFailed      FlowEvent = "STEP_FAILED"
)

// transitions is the full legal transition table.
var transitions = map[FlowState]map[FlowEvent]FlowState{
	StateStart: {
		EventBegin: StateResolving,
	},
	StateResolving: {
		EventUnauthenticated: StateFailed,
		EventEligible:        StateGranted,
		EventFreeCourse:      StateFreeSubmitting,
		EventPaymentRequired: StateAwaitingChoice,
		EventReviewDetected:  StatePending,
		EventStepFailed:      StateFailed,
	},
	StateFreeSubmitting: {
		EventSubmitted:  StateActive,
		EventDuplicate:  StateActive, // a racing twin won; same outcome, no error
		EventStepFailed: StateFailed,
	},
	StateAwaitingChoice: {
		EventChoseGateway: StateGatewayRedirecting,
		EventChoseManual:  StateManualQuoting,
		EventStepFailed:   StateFailed,
	},
	StateGatewayRedirecting: {
		EventRedirectIssued: StateRedirected,
		EventDuplicate:      StateGranted,
		EventStepFailed:     StateFailed,
	},
	StateManualQuoting: {
		EventQuoteReady: StateManualSubmitting,
	},
	StateManualSubmitting: {
		EventProofAccepted: StatePending,
		EventStepFailed:    StateFailed,
	},
}

// nextState returns the state reached by applying event in state. It returns
// ErrIllegalTransition when the event is not legal in the state, including
// any event applied to a terminal state.
func nextState(state FlowState, event FlowEvent) (FlowState, error) {
	byEvent, ok := transitions[state]
	if !ok {
		return StateFailed, ErrIllegalTransition
	}

	next, ok := byEvent[event]
	if !ok {
		return StateFailed, ErrIllegalTransition
	}

	return next, nil
}

// flow tracks one workflow instance through its states.
type flow struct {
	state FlowState
}

func newFlow() *flow {
	return &flow{state: StateStart}
}

// advance applies an event, mutating the flow. An illegal transition parks
// the flow in Failed and reports it.
func (f *flow) advance(event FlowEvent) error {
	next, err := nextState(f.state, event)
	f.state = next
	return err
}

// Terminal reports whether a state ends the workflow instance.
func Terminal(state FlowState) bool {
	switch state {
	case StateActive, StatePending, StateGranted, StateRedirected, StateFailed:
		return true
	}
	return false
}
