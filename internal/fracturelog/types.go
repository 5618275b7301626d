package fracturelog

import (
	"time"

	"github.com/fracturelabs/antifragile/go-engine/internal/pathway"
)

// #region rows

// FractureRow is one journaled fracture as read back from the store.
type FractureRow struct {
	ID                string                      `json:"event_id"`
	At                time.Time                   `json:"at"`
	Severity          float64                     `json:"severity"`
	Context           string                      `json:"context"`
	StateKey          string                      `json:"state_key"`
	FITrend           float64                     `json:"fi_trend"`
	CriticalThreshold float64                     `json:"critical_threshold"`
	Factors           []pathway.Factor            `json:"factors,omitempty"`
	Interventions     []pathway.InterventionPoint `json:"interventions,omitempty"`
}

// EventKind labels a journaled engine event.
type EventKind string

const (
	KindPolicyUpdate EventKind = "policy_update"
	KindMiningPass   EventKind = "mining_pass"
)

// EventRow is one journaled engine event with its JSON detail payload.
type EventRow struct {
	ID     int64     `json:"id"`
	At     time.Time `json:"at"`
	Kind   EventKind `json:"kind"`
	Detail string    `json:"detail"`
}

// #endregion rows

// #region summary

// ContextCount pairs a fracture context with how often it appears.
type ContextCount struct {
	Context string `json:"context"`
	Count   int    `json:"count"`
}

// Summary aggregates the whole journal.
type Summary struct {
	TotalFractures int            `json:"total_fractures"`
	MeanSeverity   float64        `json:"mean_severity"`
	MaxSeverity    float64        `json:"max_severity"`
	TopContexts    []ContextCount `json:"top_contexts,omitempty"`
}

// #endregion summary
