package mining

import (
	"time"

	"github.com/fracturelabs/antifragile/go-engine/internal/pathway"
	"github.com/fracturelabs/antifragile/go-engine/internal/policy"
)

// #region event

// Event is the longitudinal view of one fracture, the unit the miner
// works over.
type Event struct {
	ID       string
	At       time.Time
	Severity float64
	Domain   string
	Task     string
	Factors  []pathway.Factor
	State    policy.StateKey
}

// Context returns the "domain:task" grouping key.
func (e Event) Context() string {
	return e.Domain + ":" + e.Task
}

// #endregion event

// #region pattern-types

// PatternType classifies a temporal fracture pattern.
type PatternType string

const (
	PatternPeriodic PatternType = "periodic_fracture"
	PatternBurst    PatternType = "burst_pattern"
)

// TemporalPattern is a detected rhythm in fracture arrivals.
type TemporalPattern struct {
	Type       PatternType
	IntervalMs float64 // mean inter-arrival interval
	Confidence float64
}

// ContextTrigger is a domain:task grouping that concentrates fractures.
type ContextTrigger struct {
	Context   string
	Count     int
	Frequency float64
}

// VulnerabilityType classifies a per-user vulnerability factor.
type VulnerabilityType string

const (
	VulnerabilityHighStress       VulnerabilityType = "high_stress_sensitivity"
	VulnerabilityLowComplexity    VulnerabilityType = "low_complexity_tolerance"
	VulnerabilityNotifDistraction VulnerabilityType = "notification_distractibility"
)

// Vulnerability is one identified user vulnerability with its current
// factor value.
type Vulnerability struct {
	Type  VulnerabilityType
	Score float64
}

// Insights bundles everything one mining pass found.
type Insights struct {
	Temporal        []TemporalPattern
	Triggers        []ContextTrigger
	Vulnerabilities []Vulnerability
}

// #endregion pattern-types

// #region proposals

// ProposalType classifies an advisory structural change.
type ProposalType string

const (
	ProposalLayoutSimplification ProposalType = "layout_simplification"
	ProposalNotificationPolicy   ProposalType = "notification_policy"
	ProposalContextAdaptation    ProposalType = "context_adaptation"
)

// ChangeProposal is an advisory structural change. Never auto-applied;
// the host decides.
type ChangeProposal struct {
	Type       ProposalType
	Confidence float64
	Reason     string
}

// #endregion proposals

// #region config

// Config tunes the miner.
type Config struct {
	WindowSize int // fracture events per mining pass
}

// DefaultConfig returns the standard miner parameters.
func DefaultConfig() Config {
	return Config{WindowSize: 20}
}

// #endregion config
