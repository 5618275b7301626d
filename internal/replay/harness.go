package replay

import (
	"fmt"

	"github.com/fracturelabs/antifragile/go-engine/internal/engine"
	"github.com/fracturelabs/antifragile/go-engine/internal/frame"
	"github.com/fracturelabs/antifragile/go-engine/internal/policy"
)

// #region types

// Result is the outcome of one replayed frame.
type Result struct {
	FrameIndex int
	Tick       engine.TickResult
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Frames        int           `json:"frames"`
	Fractures     int           `json:"fractures"`
	PolicyUpdates int           `json:"policy_updates"`
	MiningPasses  int           `json:"mining_passes"`
	FinalStatus   engine.Status `json:"final_status"`
}

// #endregion types

// #region replay

// Run feeds every frame through the engine in order and collects the
// per-frame results. Operates entirely in-memory.
func Run(e *engine.Engine, frames []frame.Record) ([]Result, Summary) {
	results := make([]Result, 0, len(frames))
	sum := Summary{Frames: len(frames)}

	for i, rec := range frames {
		tick := e.ProcessFrame(rec)
		if tick.Fractured {
			sum.Fractures++
		}
		if tick.Policy != nil {
			sum.PolicyUpdates++
		}
		if tick.Structural != nil {
			sum.MiningPasses++
		}
		results = append(results, Result{FrameIndex: i, Tick: tick})
	}

	sum.FinalStatus = e.Status()
	return results, sum
}

// RunFixture builds an engine from the fixture's config and replays
// its frame stream. The engine is returned so callers can run the
// expectation checks against it.
func RunFixture(f *Fixture) (*engine.Engine, []Result, Summary, error) {
	e, err := engine.New(f.EngineConfig())
	if err != nil {
		return nil, nil, Summary{}, fmt.Errorf("fixture config: %w", err)
	}
	results, sum := Run(e, f.Frames)
	return e, results, sum, nil
}

// #endregion replay

// #region checks

// Check compares a finished run against the fixture's expectations and
// returns one message per mismatch. An empty slice means the run
// matched; fixtures without expectations always match.
func Check(f *Fixture, e *engine.Engine, sum Summary) []string {
	exp := f.Expected
	if exp == nil {
		return nil
	}
	var mismatches []string

	if exp.TotalFractures != nil && sum.FinalStatus.TotalFractures != *exp.TotalFractures {
		mismatches = append(mismatches, fmt.Sprintf(
			"total fractures: expected %d, got %d", *exp.TotalFractures, sum.FinalStatus.TotalFractures))
	}
	if exp.PreventedFractures != nil && sum.FinalStatus.PreventedFractures != *exp.PreventedFractures {
		mismatches = append(mismatches, fmt.Sprintf(
			"prevented fractures: expected %d, got %d", *exp.PreventedFractures, sum.FinalStatus.PreventedFractures))
	}
	if exp.MinQTableStates != nil && sum.FinalStatus.QTableSize < *exp.MinQTableStates {
		mismatches = append(mismatches, fmt.Sprintf(
			"qtable states: expected at least %d, got %d", *exp.MinQTableStates, sum.FinalStatus.QTableSize))
	}
	if exp.MinPolicyUpdates != nil && sum.PolicyUpdates < *exp.MinPolicyUpdates {
		mismatches = append(mismatches, fmt.Sprintf(
			"policy updates: expected at least %d, got %d", *exp.MinPolicyUpdates, sum.PolicyUpdates))
	}
	if exp.FinalGreedyAction != nil {
		last := f.Frames[len(f.Frames)-1]
		action, ok := e.GreedyAction(last)
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf(
				"final greedy action: expected %s, state never learned", *exp.FinalGreedyAction))
		} else if action != policy.Action(*exp.FinalGreedyAction) {
			mismatches = append(mismatches, fmt.Sprintf(
				"final greedy action: expected %s, got %s", *exp.FinalGreedyAction, action))
		}
	}
	return mismatches
}

// #endregion checks
