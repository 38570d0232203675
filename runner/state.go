package runner

// State is the phase of one model's extraction run. Transitions are
// strictly forward; Failed is terminal and reachable from any phase.
type State int

const (
	StateIdle State = iota
	StateNavigating
	StateCollectingTechnicalData
	StateExpandingSections
	StateScanningImages
	StateClassifyingOptions
	StateResolvingResidualPrices
	StatePersisting
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:                    "idle",
	StateNavigating:              "navigating",
	StateCollectingTechnicalData: "collecting_technical_data",
	StateExpandingSections:       "expanding_sections",
	StateScanningImages:          "scanning_images",
	StateClassifyingOptions:      "classifying_options",
	StateResolvingResidualPrices: "resolving_residual_prices",
	StatePersisting:              "persisting",
	StateDone:                    "done",
	StateFailed:                  "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether the run has ended.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
