package pathway

import "github.com/fracturelabs/antifragile/go-engine/internal/frame"

// #region factor-type

// FactorType enumerates contributing factor categories.
type FactorType string

const (
	FactorUIComplexity         FactorType = "ui_complexity"
	FactorNotificationPressure FactorType = "notification_pressure"
	FactorTaskSwitching        FactorType = "task_switching"
	FactorStressAccumulation   FactorType = "stress_accumulation"
)

// #endregion factor-type

// #region factor

// Factor is one detected contributing factor with its severity.
type Factor struct {
	Type        FactorType
	Severity    float64
	Description string
}

// #endregion factor

// #region opportunity

// OpportunityType enumerates intervention opportunity categories.
type OpportunityType string

const (
	OpportunityFISpike         OpportunityType = "fi_spike"
	OpportunityStressThreshold OpportunityType = "stress_threshold"
	OpportunityComplexityJump  OpportunityType = "complexity_jump"
)

// Potential grades how promising an intervention point is.
type Potential string

const (
	PotentialHigh   Potential = "high"
	PotentialMedium Potential = "medium"
	PotentialLow    Potential = "low"
)

// InterventionPoint marks a pre-fracture frame where acting could have
// changed the outcome. Index refers to the later frame of the pair that
// triggered the detection.
type InterventionPoint struct {
	Index       int
	Type        OpportunityType
	Potential   Potential
	Description string
}

// #endregion opportunity

// #region pathway

// Pathway captures per-feature progressions across the pre-fracture
// window plus the derived trend and critical point.
type Pathway struct {
	FIProgression          []float64
	StressProgression      []float64
	ComplexityProgression  []float64
	InteractionProgression []float64

	FITrend           float64 // OLS slope over FIProgression
	AccelerationPoint int     // index of max second difference, -1 when absent
	CriticalThreshold float64 // FI at the acceleration point, static fallback otherwise
}

// #endregion pathway

// #region analysis

// Analysis is the full output of inspecting one fracture.
type Analysis struct {
	Trigger       frame.Frame
	PreFrames     []frame.Frame
	Pathway       Pathway
	Factors       []Factor
	Interventions []InterventionPoint
}

// #endregion analysis
