package model

// GateTrigger selects the stage a test gate attaches to
type GateTrigger int

const (
	// BeforeFirstStage fires once, on the first stage in declaration order
	BeforeFirstStage GateTrigger = iota
	// BeforeProduction fires on the stage named as the production stage
	BeforeProduction
)

// Action names used for the inserted test gates
const (
	FirstStageGateAction = "tests"
	ProductionGateAction = "beforeProdTests"
)

func (t GateTrigger) String() string {
	switch t {
	case BeforeFirstStage:
		return "beforeFirstStage"
	case BeforeProduction:
		return "beforeProduction"
	default:
		return "unknown"
	}
}

// TestGate is a test-command action inserted into a stage when its trigger matches
type TestGate struct {
	Trigger    GateTrigger
	ActionName string
	Commands   []string
}

// Applies reports whether the gate attaches to the given stage
func (g TestGate) Applies(stageName string, first bool, prodStageName string) bool {
	switch g.Trigger {
	case BeforeFirstStage:
		return first
	case BeforeProduction:
		return prodStageName != "" && stageName == prodStageName
	default:
		return false
	}
}
