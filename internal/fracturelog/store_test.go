package fracturelog

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fracturelabs/antifragile/go-engine/internal/engine"
	"github.com/fracturelabs/antifragile/go-engine/internal/frame"
	"github.com/fracturelabs/antifragile/go-engine/internal/pathway"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fixtureEvent(at time.Time, severity float64, context string) engine.FractureEvent {
	trigger := frame.Frame{FI: severity, Domain: "coding", Task: "debugging", Timestamp: at}
	return engine.FractureEvent{
		ID:       uuid.NewString(),
		At:       at,
		Severity: severity,
		Context:  context,
		Analysis: pathway.Analysis{
			Trigger: trigger,
			Pathway: pathway.Pathway{FITrend: 0.12, CriticalThreshold: 0.6},
			Factors: []pathway.Factor{
				{Type: pathway.FactorStressAccumulation, Severity: 0.7, Description: "peak stress level of 0.70"},
			},
			Interventions: []pathway.InterventionPoint{
				{Index: 3, Type: pathway.OpportunityFISpike, Potential: pathway.PotentialHigh},
			},
		},
	}
}

// #region fracture-tests

func TestStore_FractureRoundTrip(t *testing.T) {
	s := testStore(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	ev := fixtureEvent(at, 0.9, "coding:debugging")

	if err := s.RecordFracture(ev); err != nil {
		t.Fatalf("RecordFracture: %v", err)
	}
	rows, err := s.ListFractures(0)
	if err != nil {
		t.Fatalf("ListFractures: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.ID != ev.ID || !r.At.Equal(at) || r.Severity != 0.9 || r.Context != "coding:debugging" {
		t.Errorf("row mismatch: %+v", r)
	}
	if math.Abs(r.FITrend-0.12) > 1e-9 || math.Abs(r.CriticalThreshold-0.6) > 1e-9 {
		t.Errorf("pathway fields mismatch: %+v", r)
	}
	if len(r.Factors) != 1 || r.Factors[0].Type != pathway.FactorStressAccumulation {
		t.Errorf("factors mismatch: %+v", r.Factors)
	}
	if len(r.Interventions) != 1 || r.Interventions[0].Type != pathway.OpportunityFISpike {
		t.Errorf("interventions mismatch: %+v", r.Interventions)
	}
	if r.StateKey == "" {
		t.Error("expected discretized state key persisted")
	}
}

func TestStore_ListFracturesNewestFirstWithLimit(t *testing.T) {
	s := testStore(t)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ev := fixtureEvent(base.Add(time.Duration(i)*time.Minute), 0.8, "a:b")
		if err := s.RecordFracture(ev); err != nil {
			t.Fatal(err)
		}
	}
	rows, err := s.ListFractures(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].At.After(rows[1].At) {
		t.Errorf("expected newest first, got %v then %v", rows[0].At, rows[1].At)
	}
}

// #endregion fracture-tests

// #region event-tests

func TestStore_EventsFilteredByKind(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	if err := s.RecordEvent(KindPolicyUpdate, now, engine.PolicyUpdated{StatesLearned: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordEvent(KindMiningPass, now, engine.StructuralAdaptation{FractureCount: 20}); err != nil {
		t.Fatal(err)
	}

	policyOnly, err := s.ListEvents(KindPolicyUpdate, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(policyOnly) != 1 || policyOnly[0].Kind != KindPolicyUpdate {
		t.Errorf("expected one policy_update event, got %v", policyOnly)
	}
	all, err := s.ListEvents("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 events, got %d", len(all))
	}
}

func TestStore_RecordTickJournalsEverything(t *testing.T) {
	s := testStore(t)
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	ev := fixtureEvent(at, 0.9, "coding:debugging")

	res := engine.TickResult{
		Frame:      ev.Analysis.Trigger,
		Fractured:  true,
		Fracture:   &engine.FractureProcessed{Event: ev, Experiences: 4},
		Policy:     &engine.PolicyUpdated{StatesLearned: 2, AdaptationCount: 1},
		Structural: &engine.StructuralAdaptation{FractureCount: 20},
	}
	if err := s.RecordTick(res); err != nil {
		t.Fatalf("RecordTick: %v", err)
	}

	rows, err := s.ListFractures(0)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected 1 fracture, got %d (err %v)", len(rows), err)
	}
	events, err := s.ListEvents("", 0)
	if err != nil || len(events) != 2 {
		t.Fatalf("expected 2 engine events, got %d (err %v)", len(events), err)
	}
}

// #endregion event-tests

// #region summary-tests

func TestStore_Summarize(t *testing.T) {
	s := testStore(t)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	severities := []float64{0.8, 0.9, 1.0}
	for i, sev := range severities {
		ctx := "coding:debugging"
		if i == 2 {
			ctx = "writing:email"
		}
		if err := s.RecordFracture(fixtureEvent(base.Add(time.Duration(i)*time.Minute), sev, ctx)); err != nil {
			t.Fatal(err)
		}
	}

	sum, err := s.Summarize()
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.TotalFractures != 3 {
		t.Errorf("expected 3 fractures, got %d", sum.TotalFractures)
	}
	if math.Abs(sum.MeanSeverity-0.9) > 1e-9 {
		t.Errorf("expected mean severity 0.9, got %f", sum.MeanSeverity)
	}
	if sum.MaxSeverity != 1.0 {
		t.Errorf("expected max severity 1.0, got %f", sum.MaxSeverity)
	}
	if len(sum.TopContexts) != 2 || sum.TopContexts[0].Context != "coding:debugging" || sum.TopContexts[0].Count != 2 {
		t.Errorf("unexpected context ranking: %v", sum.TopContexts)
	}
}

func TestStore_SummarizeEmpty(t *testing.T) {
	sum, err := testStore(t).Summarize()
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.TotalFractures != 0 || sum.MeanSeverity != 0 || len(sum.TopContexts) != 0 {
		t.Errorf("expected zero summary, got %+v", sum)
	}
}

// #endregion summary-tests
