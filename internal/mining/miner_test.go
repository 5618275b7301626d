package mining

import (
	"math"
	"testing"
	"time"

	"github.com/fracturelabs/antifragile/go-engine/internal/pathway"
	"github.com/fracturelabs/antifragile/go-engine/internal/policy"
)

var t0 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func eventsAt(offsets ...time.Duration) []Event {
	out := make([]Event, len(offsets))
	for i, off := range offsets {
		out[i] = Event{At: t0.Add(off)}
	}
	return out
}

// #region temporal-tests

func TestFindTemporalPatterns_ExactPeriodicity(t *testing.T) {
	times := []time.Time{
		t0,
		t0.Add(60 * time.Second),
		t0.Add(120 * time.Second),
		t0.Add(180 * time.Second),
	}
	patterns := FindTemporalPatterns(times)
	if len(patterns) != 1 {
		t.Fatalf("expected exactly one pattern, got %d: %v", len(patterns), patterns)
	}
	p := patterns[0]
	if p.Type != PatternPeriodic {
		t.Errorf("expected periodic_fracture, got %s", p.Type)
	}
	if math.Abs(p.IntervalMs-60000) > 100 {
		t.Errorf("expected interval within 100ms of 60000, got %f", p.IntervalMs)
	}
	if math.Abs(p.Confidence-1.0) > 1e-9 {
		t.Errorf("expected full confidence for zero jitter, got %f", p.Confidence)
	}
}

func TestFindTemporalPatterns_TooFewEvents(t *testing.T) {
	if p := FindTemporalPatterns([]time.Time{t0, t0.Add(time.Minute)}); p != nil {
		t.Errorf("expected nil below 3 timestamps, got %v", p)
	}
}

func TestFindTemporalPatterns_Burst(t *testing.T) {
	// Two tight pairs far apart: intervals 1s, 60s, 1s → mean ~20.7s,
	// 2 of 3 intervals are short.
	times := []time.Time{
		t0,
		t0.Add(1 * time.Second),
		t0.Add(61 * time.Second),
		t0.Add(62 * time.Second),
	}
	patterns := FindTemporalPatterns(times)
	var burst *TemporalPattern
	for i := range patterns {
		if patterns[i].Type == PatternBurst {
			burst = &patterns[i]
		}
	}
	if burst == nil {
		t.Fatalf("expected burst pattern, got %v", patterns)
	}
	if burst.Confidence != 0.8 {
		t.Errorf("expected fixed 0.8 confidence, got %f", burst.Confidence)
	}
	if math.Abs(burst.IntervalMs-1000) > 1 {
		t.Errorf("expected short-interval mean ~1000ms, got %f", burst.IntervalMs)
	}
}

func TestFindTemporalPatterns_IrregularSpacing(t *testing.T) {
	times := []time.Time{
		t0,
		t0.Add(10 * time.Second),
		t0.Add(40 * time.Second),
		t0.Add(55 * time.Second),
	}
	for _, p := range FindTemporalPatterns(times) {
		if p.Type == PatternPeriodic {
			t.Errorf("expected no periodicity for irregular spacing, got %+v", p)
		}
	}
}

// #endregion temporal-tests

// #region trigger-tests

func TestFindContextualTriggers_MajorityContext(t *testing.T) {
	events := []Event{
		{Domain: "coding", Task: "debugging"},
		{Domain: "coding", Task: "debugging"},
		{Domain: "coding", Task: "debugging"},
		{Domain: "writing", Task: "email"},
	}
	triggers := FindContextualTriggers(events)
	if len(triggers) != 1 {
		t.Fatalf("expected exactly one trigger, got %d: %v", len(triggers), triggers)
	}
	trig := triggers[0]
	if trig.Context != "coding:debugging" {
		t.Errorf("expected coding:debugging, got %s", trig.Context)
	}
	if trig.Count != 3 {
		t.Errorf("expected count 3, got %d", trig.Count)
	}
	if math.Abs(trig.Frequency-0.75) > 1e-9 {
		t.Errorf("expected frequency 0.75, got %f", trig.Frequency)
	}
}

func TestFindContextualTriggers_ShareThresholdIsStrict(t *testing.T) {
	// 3 of 10 is exactly 0.3 and must not trigger.
	var events []Event
	for i := 0; i < 3; i++ {
		events = append(events, Event{Domain: "coding", Task: "review"})
	}
	for i := 0; i < 7; i++ {
		events = append(events, Event{Domain: "d" + string(rune('a'+i)), Task: "t"})
	}
	for _, trig := range FindContextualTriggers(events) {
		if trig.Context == "coding:review" {
			t.Errorf("expected 30%% share to stay below threshold, got %+v", trig)
		}
	}
}

func TestFindContextualTriggers_Empty(t *testing.T) {
	if trig := FindContextualTriggers(nil); trig != nil {
		t.Errorf("expected nil for no events, got %v", trig)
	}
}

// #endregion trigger-tests

// #region vulnerability-tests

func TestIdentifyUserVulnerabilities_TwoOfThree(t *testing.T) {
	p := NewProfile()
	p.StressSensitivity = 0.8
	p.ComplexityTolerance = 0.2
	p.NotificationSensitivity = 0.5

	vulns := IdentifyUserVulnerabilities(p)
	if len(vulns) != 2 {
		t.Fatalf("expected exactly 2 vulnerabilities, got %d: %v", len(vulns), vulns)
	}
	types := map[VulnerabilityType]bool{}
	for _, v := range vulns {
		types[v.Type] = true
	}
	if !types[VulnerabilityHighStress] || !types[VulnerabilityLowComplexity] {
		t.Errorf("expected high_stress_sensitivity and low_complexity_tolerance, got %v", vulns)
	}
}

func TestIdentifyUserVulnerabilities_NeutralProfile(t *testing.T) {
	if vulns := IdentifyUserVulnerabilities(NewProfile()); len(vulns) != 0 {
		t.Errorf("expected no vulnerabilities at neutral midpoints, got %v", vulns)
	}
}

// #endregion vulnerability-tests

// #region profile-tests

func TestProfile_ObserveNudgesFactors(t *testing.T) {
	p := NewProfile()
	ev := Event{
		Domain: "coding", Task: "debugging",
		State: policy.StateKey{8},
		Factors: []pathway.Factor{
			{Type: pathway.FactorStressAccumulation, Severity: 0.8},
			{Type: pathway.FactorUIComplexity, Severity: 0.9},
			{Type: pathway.FactorNotificationPressure, Severity: 0.7},
		},
	}
	p.Observe(ev)

	if math.Abs(p.StressSensitivity-0.58) > 1e-9 {
		t.Errorf("expected stress sensitivity 0.58, got %f", p.StressSensitivity)
	}
	if math.Abs(p.ComplexityTolerance-0.41) > 1e-9 {
		t.Errorf("expected complexity tolerance 0.41, got %f", p.ComplexityTolerance)
	}
	if math.Abs(p.NotificationSensitivity-0.57) > 1e-9 {
		t.Errorf("expected notification sensitivity 0.57, got %f", p.NotificationSensitivity)
	}
	if p.VulnerableStates[policy.StateKey{8}] != 1 {
		t.Error("expected vulnerable state counted")
	}
	if len(p.TriggerSequences) != 1 || p.TriggerSequences[0] != "coding:debugging" {
		t.Errorf("expected trigger sequence recorded, got %v", p.TriggerSequences)
	}
}

func TestProfile_FactorsClampToUnitInterval(t *testing.T) {
	p := NewProfile()
	ev := Event{Factors: []pathway.Factor{
		{Type: pathway.FactorStressAccumulation, Severity: 1.0},
		{Type: pathway.FactorUIComplexity, Severity: 1.0},
	}}
	for i := 0; i < 100; i++ {
		p.Observe(ev)
	}
	if p.StressSensitivity != 1 {
		t.Errorf("expected stress sensitivity clamped at 1, got %f", p.StressSensitivity)
	}
	if p.ComplexityTolerance != 0 {
		t.Errorf("expected complexity tolerance clamped at 0, got %f", p.ComplexityTolerance)
	}
}

func TestProfile_TriggerSequencesBounded(t *testing.T) {
	p := NewProfile()
	for i := 0; i < 200; i++ {
		p.Observe(Event{Domain: "d", Task: "t"})
	}
	if len(p.TriggerSequences) != triggerSequenceCap {
		t.Errorf("expected trigger history capped at %d, got %d", triggerSequenceCap, len(p.TriggerSequences))
	}
}

func TestProfile_SnapshotIsIndependent(t *testing.T) {
	p := NewProfile()
	p.Observe(Event{State: policy.StateKey{1}})
	snap := p.Snapshot()
	snap.VulnerableStates[policy.StateKey{1}] = 99
	if p.VulnerableStates[policy.StateKey{1}] != 1 {
		t.Error("expected snapshot mutation not to leak back")
	}
}

// #endregion profile-tests

// #region proposal-tests

func TestProposeStructuralChanges_Gated(t *testing.T) {
	events := []Event{
		{Factors: []pathway.Factor{
			{Type: pathway.FactorUIComplexity, Severity: 0.85},
			{Type: pathway.FactorNotificationPressure, Severity: 0.65},
		}},
	}
	insights := Insights{Triggers: []ContextTrigger{{Context: "coding:debugging", Frequency: 0.6, Count: 12}}}

	proposals := ProposeStructuralChanges(insights, events)
	if len(proposals) != 3 {
		t.Fatalf("expected 3 proposals, got %d: %v", len(proposals), proposals)
	}
	byType := map[ProposalType]ChangeProposal{}
	for _, pr := range proposals {
		byType[pr.Type] = pr
		if pr.Reason == "" {
			t.Errorf("expected reason on proposal %s", pr.Type)
		}
	}
	if byType[ProposalLayoutSimplification].Confidence != 0.85 {
		t.Errorf("expected layout confidence 0.85, got %f", byType[ProposalLayoutSimplification].Confidence)
	}
	if byType[ProposalContextAdaptation].Confidence != 0.6 {
		t.Errorf("expected context confidence 0.6, got %f", byType[ProposalContextAdaptation].Confidence)
	}
}

func TestProposeStructuralChanges_BelowThresholds(t *testing.T) {
	events := []Event{
		{Factors: []pathway.Factor{
			{Type: pathway.FactorUIComplexity, Severity: 0.7},
			{Type: pathway.FactorNotificationPressure, Severity: 0.6},
		}},
	}
	insights := Insights{Triggers: []ContextTrigger{{Context: "a:b", Frequency: 0.5}}}
	if proposals := ProposeStructuralChanges(insights, events); len(proposals) != 0 {
		t.Errorf("expected strict thresholds to suppress proposals, got %v", proposals)
	}
}

// #endregion proposal-tests

// #region miner-tests

func TestMiner_AnalyzeComposes(t *testing.T) {
	events := eventsAt(0, time.Minute, 2*time.Minute, 3*time.Minute)
	for i := range events {
		events[i].Domain = "coding"
		events[i].Task = "debugging"
	}
	p := NewProfile()
	p.StressSensitivity = 0.9

	insights := NewMiner(DefaultConfig()).Analyze(events, p)
	if len(insights.Temporal) == 0 {
		t.Error("expected temporal pattern")
	}
	if len(insights.Triggers) != 1 {
		t.Errorf("expected one trigger, got %v", insights.Triggers)
	}
	if len(insights.Vulnerabilities) != 1 {
		t.Errorf("expected one vulnerability, got %v", insights.Vulnerabilities)
	}
}

// #endregion miner-tests
