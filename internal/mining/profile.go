package mining

import (
	"github.com/fracturelabs/antifragile/go-engine/internal/pathway"
	"github.com/fracturelabs/antifragile/go-engine/internal/policy"
)

// #region profile

// triggerSequenceCap bounds the retained context history.
const triggerSequenceCap = 50

// Profile is the per-user adaptation state, updated incrementally as
// fractures arrive. Personality factors live in [0,1] and move by an
// additive heuristic nudge, not a true moving average.
type Profile struct {
	VulnerableStates map[policy.StateKey]int `json:"vulnerable_states"`
	TriggerSequences []string                `json:"trigger_sequences"`

	StressSensitivity       float64 `json:"stress_sensitivity"`
	ComplexityTolerance     float64 `json:"complexity_tolerance"`
	NotificationSensitivity float64 `json:"notification_sensitivity"`
}

// NewProfile starts every personality factor at the neutral midpoint.
func NewProfile() *Profile {
	return &Profile{
		VulnerableStates:        make(map[policy.StateKey]int),
		StressSensitivity:       0.5,
		ComplexityTolerance:     0.5,
		NotificationSensitivity: 0.5,
	}
}

// Observe folds one fracture into the profile: the discretized state is
// counted as vulnerable, the context joins the trigger history, and
// each contributing factor nudges its personality dimension by
// severity*0.1 (tolerance moves down, sensitivities move up).
func (p *Profile) Observe(ev Event) {
	p.VulnerableStates[ev.State]++

	p.TriggerSequences = append(p.TriggerSequences, ev.Context())
	if len(p.TriggerSequences) > triggerSequenceCap {
		p.TriggerSequences = p.TriggerSequences[len(p.TriggerSequences)-triggerSequenceCap:]
	}

	for _, f := range ev.Factors {
		nudge := f.Severity * 0.1
		switch f.Type {
		case pathway.FactorStressAccumulation:
			p.StressSensitivity = clampUnit(p.StressSensitivity + nudge)
		case pathway.FactorUIComplexity:
			p.ComplexityTolerance = clampUnit(p.ComplexityTolerance - nudge)
		case pathway.FactorNotificationPressure:
			p.NotificationSensitivity = clampUnit(p.NotificationSensitivity + nudge)
		}
	}
}

// Snapshot returns an independent copy for status reporting.
func (p *Profile) Snapshot() Profile {
	states := make(map[policy.StateKey]int, len(p.VulnerableStates))
	for k, v := range p.VulnerableStates {
		states[k] = v
	}
	seqs := make([]string, len(p.TriggerSequences))
	copy(seqs, p.TriggerSequences)
	return Profile{
		VulnerableStates:        states,
		TriggerSequences:        seqs,
		StressSensitivity:       p.StressSensitivity,
		ComplexityTolerance:     p.ComplexityTolerance,
		NotificationSensitivity: p.NotificationSensitivity,
	}
}

// clampUnit restricts v to [0, 1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion profile
