package mining

import (
	"fmt"
	"sort"
	"time"

	"github.com/fracturelabs/antifragile/go-engine/internal/features"
	"github.com/fracturelabs/antifragile/go-engine/internal/pathway"
)

// #region miner

// Miner scans the accumulated fracture history for longitudinal
// patterns and derives advisory structural change proposals.
type Miner struct {
	config Config
}

// NewMiner creates a miner with the given configuration.
func NewMiner(config Config) *Miner {
	return &Miner{config: config}
}

// Analyze runs one full mining pass over the most recent WindowSize
// events.
func (m *Miner) Analyze(events []Event, profile *Profile) Insights {
	if m.config.WindowSize > 0 && len(events) > m.config.WindowSize {
		events = events[len(events)-m.config.WindowSize:]
	}
	times := make([]time.Time, len(events))
	for i, ev := range events {
		times[i] = ev.At
	}
	return Insights{
		Temporal:        FindTemporalPatterns(times),
		Triggers:        FindContextualTriggers(events),
		Vulnerabilities: IdentifyUserVulnerabilities(profile),
	}
}

// #endregion miner

// #region temporal-patterns

// FindTemporalPatterns inspects fracture inter-arrival intervals for
// periodicity and bursting. Needs at least 3 timestamps.
func FindTemporalPatterns(times []time.Time) []TemporalPattern {
	if len(times) < 3 {
		return nil
	}

	intervals := make([]float64, len(times)-1)
	for i := 1; i < len(times); i++ {
		intervals[i-1] = float64(times[i].Sub(times[i-1]).Milliseconds())
	}

	stats := features.Describe(intervals)
	if stats == nil || stats.Mean <= 0 {
		return nil
	}

	var patterns []TemporalPattern
	if stats.StdDev < 0.2*stats.Mean {
		patterns = append(patterns, TemporalPattern{
			Type:       PatternPeriodic,
			IntervalMs: stats.Mean,
			Confidence: 1 - stats.StdDev/stats.Mean,
		})
	}

	short := 0
	var shortSum float64
	for _, iv := range intervals {
		if iv < 0.5*stats.Mean {
			short++
			shortSum += iv
		}
	}
	if float64(short)/float64(len(intervals)) > 0.3 {
		p := TemporalPattern{Type: PatternBurst, Confidence: 0.8}
		if short > 0 {
			p.IntervalMs = shortSum / float64(short)
		}
		patterns = append(patterns, p)
	}
	return patterns
}

// #endregion temporal-patterns

// #region contextual-triggers

// FindContextualTriggers groups the window by domain:task and reports
// any group holding a strict majority share above 0.3.
func FindContextualTriggers(events []Event) []ContextTrigger {
	if len(events) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Context()]++
	}

	var triggers []ContextTrigger
	total := float64(len(events))
	for ctx, count := range counts {
		freq := float64(count) / total
		if freq > 0.3 {
			triggers = append(triggers, ContextTrigger{
				Context:   ctx,
				Count:     count,
				Frequency: freq,
			})
		}
	}
	sort.Slice(triggers, func(i, j int) bool {
		if triggers[i].Count != triggers[j].Count {
			return triggers[i].Count > triggers[j].Count
		}
		return triggers[i].Context < triggers[j].Context
	})
	return triggers
}

// #endregion contextual-triggers

// #region vulnerabilities

// IdentifyUserVulnerabilities reads the personality factors against
// their fixed thresholds.
func IdentifyUserVulnerabilities(p *Profile) []Vulnerability {
	if p == nil {
		return nil
	}
	var vulns []Vulnerability
	if p.StressSensitivity > 0.7 {
		vulns = append(vulns, Vulnerability{Type: VulnerabilityHighStress, Score: p.StressSensitivity})
	}
	if p.ComplexityTolerance < 0.3 {
		vulns = append(vulns, Vulnerability{Type: VulnerabilityLowComplexity, Score: p.ComplexityTolerance})
	}
	if p.NotificationSensitivity > 0.7 {
		vulns = append(vulns, Vulnerability{Type: VulnerabilityNotifDistraction, Score: p.NotificationSensitivity})
	}
	return vulns
}

// #endregion vulnerabilities

// #region proposals

// ProposeStructuralChanges turns window-level evidence into advisory
// change proposals, gated by confidence thresholds. Nothing here is
// ever applied automatically.
func ProposeStructuralChanges(insights Insights, events []Event) []ChangeProposal {
	maxSeverity := make(map[pathway.FactorType]float64)
	for _, ev := range events {
		for _, f := range ev.Factors {
			if f.Severity > maxSeverity[f.Type] {
				maxSeverity[f.Type] = f.Severity
			}
		}
	}

	var proposals []ChangeProposal
	if sev := maxSeverity[pathway.FactorUIComplexity]; sev > 0.7 {
		proposals = append(proposals, ChangeProposal{
			Type:       ProposalLayoutSimplification,
			Confidence: sev,
			Reason:     fmt.Sprintf("interface complexity reached severity %.2f across the window", sev),
		})
	}
	if sev := maxSeverity[pathway.FactorNotificationPressure]; sev > 0.6 {
		proposals = append(proposals, ChangeProposal{
			Type:       ProposalNotificationPolicy,
			Confidence: sev,
			Reason:     fmt.Sprintf("notification pressure reached severity %.2f across the window", sev),
		})
	}
	for _, trig := range insights.Triggers {
		if trig.Frequency > 0.5 {
			proposals = append(proposals, ChangeProposal{
				Type:       ProposalContextAdaptation,
				Confidence: trig.Frequency,
				Reason:     fmt.Sprintf("context %s owns %.0f%% of recent fractures", trig.Context, trig.Frequency*100),
			})
		}
	}
	return proposals
}

// #endregion proposals
