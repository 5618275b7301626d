package pathway

import (
	"github.com/fracturelabs/antifragile/go-engine/internal/features"
	"github.com/fracturelabs/antifragile/go-engine/internal/frame"
)

// #region analyze

// Analyze inspects the pre-fracture window leading into trigger and
// classifies how the fracture developed. staticThreshold is the
// configured fracture threshold, used as the critical-threshold
// fallback when the window is too short to locate an acceleration
// point. Pure: never mutates its inputs, never errors.
func Analyze(pre []frame.Frame, trigger frame.Frame, staticThreshold float64) Analysis {
	return Analysis{
		Trigger:       trigger,
		PreFrames:     pre,
		Pathway:       buildPathway(pre, staticThreshold),
		Factors:       contributingFactors(pre),
		Interventions: interventionPoints(pre),
	}
}

// #endregion analyze

// #region pathway

// buildPathway extracts per-feature progressions and locates the
// critical point where FI acceleration peaked.
func buildPathway(pre []frame.Frame, staticThreshold float64) Pathway {
	p := Pathway{
		FIProgression:          make([]float64, len(pre)),
		StressProgression:      make([]float64, len(pre)),
		ComplexityProgression:  make([]float64, len(pre)),
		InteractionProgression: make([]float64, len(pre)),
	}
	for i, f := range pre {
		p.FIProgression[i] = f.FI
		p.StressProgression[i] = f.StressLevel
		p.ComplexityProgression[i] = f.TaskComplexity
		p.InteractionProgression[i] = f.RecentInteractions
	}

	p.FITrend = features.LinearTrend(p.FIProgression).Slope
	p.AccelerationPoint, p.CriticalThreshold = findCriticalThreshold(p.FIProgression, staticThreshold)
	return p
}

// findCriticalThreshold locates the index maximizing the discrete
// second difference f[i] - 2f[i-1] + f[i-2] and returns the FI value
// there. Falls back to (-1, staticThreshold) when fewer than 3 points
// exist or no positive acceleration is found.
func findCriticalThreshold(fi []float64, staticThreshold float64) (int, float64) {
	if len(fi) < 3 {
		return -1, staticThreshold
	}
	bestIdx := -1
	bestAccel := 0.0
	for i := 2; i < len(fi); i++ {
		accel := fi[i] - 2*fi[i-1] + fi[i-2]
		if accel > bestAccel {
			bestAccel = accel
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return -1, staticThreshold
	}
	return bestIdx, fi[bestIdx]
}

// #endregion pathway

// #region contributing-factors

// contributingFactors evaluates the fixed rule set over the window.
// Severity is the worst value seen, normalized where the raw scale is
// not already [0,1].
func contributingFactors(pre []frame.Frame) []Factor {
	var maxUI, maxNotif, maxSwitches, maxStress float64
	for _, f := range pre {
		if f.UIComplexity > maxUI {
			maxUI = f.UIComplexity
		}
		if f.NotificationCount > maxNotif {
			maxNotif = f.NotificationCount
		}
		if f.TaskSwitches > maxSwitches {
			maxSwitches = f.TaskSwitches
		}
		if f.StressLevel > maxStress {
			maxStress = f.StressLevel
		}
	}

	var factors []Factor
	if maxUI > 0.7 {
		factors = append(factors, Factor{
			Type:        FactorUIComplexity,
			Severity:    maxUI,
			Description: "interface complexity exceeded comfortable threshold",
		})
	}
	if maxNotif > 5 {
		factors = append(factors, Factor{
			Type:        FactorNotificationPressure,
			Severity:    maxNotif / 10,
			Description: "notification volume created attention pressure",
		})
	}
	if maxSwitches > 2 {
		factors = append(factors, Factor{
			Type:        FactorTaskSwitching,
			Severity:    maxSwitches / 5,
			Description: "frequent task switching fragmented focus",
		})
	}
	if maxStress > 0.6 {
		factors = append(factors, Factor{
			Type:        FactorStressAccumulation,
			Severity:    maxStress,
			Description: "stress accumulated beyond recovery capacity",
		})
	}
	return factors
}

// #endregion contributing-factors

// #region intervention-points

// interventionPoints scans consecutive frame pairs for moments where an
// intervention could plausibly have arrested the fracture.
func interventionPoints(pre []frame.Frame) []InterventionPoint {
	var points []InterventionPoint
	for i := 1; i < len(pre); i++ {
		prev, cur := pre[i-1], pre[i]

		if cur.FI-prev.FI > 0.15 {
			points = append(points, InterventionPoint{
				Index:       i,
				Type:        OpportunityFISpike,
				Potential:   PotentialHigh,
				Description: "abrupt fracture index jump",
			})
		}
		if prev.StressLevel <= 0.6 && cur.StressLevel > 0.6 {
			points = append(points, InterventionPoint{
				Index:       i,
				Type:        OpportunityStressThreshold,
				Potential:   PotentialMedium,
				Description: "stress crossed sustainable threshold",
			})
		}
		if cur.TaskComplexity-prev.TaskComplexity > 0.2 {
			points = append(points, InterventionPoint{
				Index:       i,
				Type:        OpportunityComplexityJump,
				Potential:   PotentialHigh,
				Description: "task complexity escalated sharply",
			})
		}
	}
	return points
}

// #endregion intervention-points
