package agent

// State is a step of the execute pipeline. Every transition is logged.
type State string

const (
	StateReceived  State = "received"
	StateResolved  State = "resolved"
	StateLaunched  State = "launched"
	StateActivated State = "activated"
	StateTyped     State = "typed"
	StateResponded State = "responded"
	StateError     State = "error"
)
