package interference

// Kind labels the effect of an interference pattern.
type Kind int

const (
	// Constructive patterns reinforce each other and are candidates for
	// amplification.
	Constructive Kind = iota
	// Destructive patterns cancel each other and are candidates for
	// suppression.
	Destructive
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Constructive:
		return "constructive"
	case Destructive:
		return "destructive"
	default:
		return "unknown"
	}
}

// Pattern describes an interference relationship between two states.
// Probability equals Amplitude squared until an apply pass rescales both.
type Pattern struct {
	Kind        Kind    `json:"kind" msgpack:"kind"`
	Probability float64 `json:"probability" msgpack:"probability"`
	Amplitude   float64 `json:"amplitude" msgpack:"amplitude"`
	Phase       float64 `json:"phase" msgpack:"phase"`
	Frequency   float64 `json:"frequency" msgpack:"frequency"`
	StateA      int     `json:"state_a" msgpack:"state_a"`
	StateB      int     `json:"state_b" msgpack:"state_b"`
}
