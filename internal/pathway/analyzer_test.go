package pathway

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fracturelabs/antifragile/go-engine/internal/frame"
)

func framesFromFI(fi ...float64) []frame.Frame {
	out := make([]frame.Frame, len(fi))
	for i, v := range fi {
		out[i] = frame.Frame{FI: v}
	}
	return out
}

// #region critical-threshold-tests

func TestFindCriticalThreshold_MaxSecondDifference(t *testing.T) {
	// Second differences peak at i=4 (0.6 - 2*0.3 + 0.25 = 0.25).
	fi := []float64{0.1, 0.2, 0.25, 0.3, 0.6, 0.8}
	idx, threshold := findCriticalThreshold(fi, 0.75)
	if idx != 4 {
		t.Errorf("expected acceleration point 4, got %d", idx)
	}
	if threshold != 0.6 {
		t.Errorf("expected critical threshold 0.6, got %f", threshold)
	}
}

func TestFindCriticalThreshold_TooFewFrames(t *testing.T) {
	idx, threshold := findCriticalThreshold([]float64{0.2, 0.4}, 0.75)
	if idx != -1 {
		t.Errorf("expected -1 for short window, got %d", idx)
	}
	if threshold != 0.75 {
		t.Errorf("expected static fallback 0.75, got %f", threshold)
	}
}

func TestFindCriticalThreshold_NoPositiveAcceleration(t *testing.T) {
	// Decelerating rise: every second difference is negative.
	idx, threshold := findCriticalThreshold([]float64{0.1, 0.5, 0.7, 0.8}, 0.75)
	if idx != -1 {
		t.Errorf("expected -1 without positive acceleration, got %d", idx)
	}
	if threshold != 0.75 {
		t.Errorf("expected static fallback, got %f", threshold)
	}
}

// #endregion critical-threshold-tests

// #region pathway-tests

func TestAnalyze_Progressions(t *testing.T) {
	pre := []frame.Frame{
		{FI: 0.1, StressLevel: 0.2, TaskComplexity: 0.3, RecentInteractions: 4},
		{FI: 0.3, StressLevel: 0.4, TaskComplexity: 0.5, RecentInteractions: 8},
	}
	a := Analyze(pre, frame.Frame{FI: 0.9}, 0.75)

	want := Pathway{
		FIProgression:          []float64{0.1, 0.3},
		StressProgression:      []float64{0.2, 0.4},
		ComplexityProgression:  []float64{0.3, 0.5},
		InteractionProgression: []float64{4, 8},
		FITrend:                0.2,
		AccelerationPoint:      -1,
		CriticalThreshold:      0.75,
	}
	if diff := cmp.Diff(want, a.Pathway); diff != "" {
		t.Errorf("pathway mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_FITrendSlope(t *testing.T) {
	a := Analyze(framesFromFI(0.1, 0.3, 0.5, 0.7), frame.Frame{FI: 0.9}, 0.75)
	if !almostEqual(a.Pathway.FITrend, 0.2) {
		t.Errorf("expected FI trend 0.2, got %f", a.Pathway.FITrend)
	}
}

func TestAnalyze_EmptyWindow(t *testing.T) {
	a := Analyze(nil, frame.Frame{FI: 0.9}, 0.75)
	if a.Pathway.CriticalThreshold != 0.75 {
		t.Errorf("expected static fallback for empty window, got %f", a.Pathway.CriticalThreshold)
	}
	if len(a.Factors) != 0 || len(a.Interventions) != 0 {
		t.Error("expected no factors or interventions for empty window")
	}
}

// #endregion pathway-tests

// #region factor-tests

func TestContributingFactors_AllRules(t *testing.T) {
	pre := []frame.Frame{
		{UIComplexity: 0.9, NotificationCount: 8, TaskSwitches: 4, StressLevel: 0.8},
		{UIComplexity: 0.5, NotificationCount: 2, TaskSwitches: 1, StressLevel: 0.3},
	}
	factors := contributingFactors(pre)
	if len(factors) != 4 {
		t.Fatalf("expected 4 factors, got %d", len(factors))
	}

	bySeverity := map[FactorType]float64{}
	for _, f := range factors {
		bySeverity[f.Type] = f.Severity
		if f.Description == "" {
			t.Errorf("expected description for factor %s", f.Type)
		}
	}
	if bySeverity[FactorUIComplexity] != 0.9 {
		t.Errorf("expected ui severity 0.9, got %f", bySeverity[FactorUIComplexity])
	}
	if bySeverity[FactorNotificationPressure] != 0.8 {
		t.Errorf("expected notification severity 0.8, got %f", bySeverity[FactorNotificationPressure])
	}
	if bySeverity[FactorTaskSwitching] != 0.8 {
		t.Errorf("expected switching severity 0.8, got %f", bySeverity[FactorTaskSwitching])
	}
	if bySeverity[FactorStressAccumulation] != 0.8 {
		t.Errorf("expected stress severity 0.8, got %f", bySeverity[FactorStressAccumulation])
	}
}

func TestContributingFactors_QuietWindow(t *testing.T) {
	pre := []frame.Frame{
		{UIComplexity: 0.7, NotificationCount: 5, TaskSwitches: 2, StressLevel: 0.6},
	}
	// Every value sits exactly on its threshold; rules are strict.
	if factors := contributingFactors(pre); len(factors) != 0 {
		t.Errorf("expected no factors at exact thresholds, got %v", factors)
	}
}

// #endregion factor-tests

// #region intervention-tests

func TestInterventionPoints_FISpike(t *testing.T) {
	pre := framesFromFI(0.2, 0.4)
	points := interventionPoints(pre)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	p := points[0]
	if p.Type != OpportunityFISpike || p.Potential != PotentialHigh || p.Index != 1 {
		t.Errorf("unexpected point: %+v", p)
	}
}

func TestInterventionPoints_StressCrossing(t *testing.T) {
	pre := []frame.Frame{
		{StressLevel: 0.5},
		{StressLevel: 0.7},
		{StressLevel: 0.8}, // already above, no new crossing
	}
	points := interventionPoints(pre)
	if len(points) != 1 {
		t.Fatalf("expected single crossing, got %d", len(points))
	}
	if points[0].Type != OpportunityStressThreshold || points[0].Potential != PotentialMedium {
		t.Errorf("unexpected point: %+v", points[0])
	}
	if points[0].Index != 1 {
		t.Errorf("expected index 1, got %d", points[0].Index)
	}
}

func TestInterventionPoints_ComplexityJump(t *testing.T) {
	pre := []frame.Frame{
		{TaskComplexity: 0.3},
		{TaskComplexity: 0.6},
	}
	points := interventionPoints(pre)
	if len(points) != 1 || points[0].Type != OpportunityComplexityJump {
		t.Fatalf("expected complexity_jump, got %v", points)
	}
	if points[0].Potential != PotentialHigh {
		t.Errorf("expected high potential, got %s", points[0].Potential)
	}
}

func TestInterventionPoints_MultiplePerPair(t *testing.T) {
	pre := []frame.Frame{
		{FI: 0.2, StressLevel: 0.5, TaskComplexity: 0.2},
		{FI: 0.5, StressLevel: 0.8, TaskComplexity: 0.6},
	}
	points := interventionPoints(pre)
	if len(points) != 3 {
		t.Errorf("expected all three detectors to fire, got %d", len(points))
	}
}

// #endregion intervention-tests

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
