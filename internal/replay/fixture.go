package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fracturelabs/antifragile/go-engine/internal/engine"
	"github.com/fracturelabs/antifragile/go-engine/internal/frame"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a
// recorded frame stream plus optional config overrides and expected
// outcomes.
type Fixture struct {
	Description string         `json:"description"`
	Config      *FixtureConfig `json:"config,omitempty"`
	Frames      []frame.Record `json:"frames"`
	Expected    *Expected      `json:"expected,omitempty"`
}

// FixtureConfig holds optional overrides applied on top of the default
// engine configuration. Absent fields keep their defaults.
type FixtureConfig struct {
	LearningRate              *float64 `json:"learning_rate,omitempty"`
	ExplorationRate           *float64 `json:"exploration_rate,omitempty"`
	ExplorationDecay          *float64 `json:"exploration_decay,omitempty"`
	BatchSize                 *int     `json:"batch_size,omitempty"`
	UpdateFrequency           *int     `json:"update_frequency,omitempty"`
	FractureThreshold         *float64 `json:"fracture_threshold,omitempty"`
	PreFrameAnalysis          *int     `json:"pre_frame_analysis,omitempty"`
	StructuralChangeThreshold *int     `json:"structural_change_threshold,omitempty"`
	Seed                      *int64   `json:"seed,omitempty"`
}

// Expected captures the assertable outcomes of a replay run. Every
// field is optional; absent fields are not checked.
type Expected struct {
	TotalFractures     *int    `json:"total_fractures,omitempty"`
	PreventedFractures *int    `json:"prevented_fractures,omitempty"`
	MinQTableStates    *int    `json:"min_qtable_states,omitempty"`
	MinPolicyUpdates   *int    `json:"min_policy_updates,omitempty"`
	FinalGreedyAction  *string `json:"final_greedy_action,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Frames) == 0 {
		return nil, fmt.Errorf("fixture %s: no frames", path)
	}
	return &f, nil
}

// EngineConfig merges the fixture's overrides onto the defaults.
// Fixtures without an explicit seed get a fixed one so runs stay
// reproducible.
func (f *Fixture) EngineConfig() engine.Config {
	config := engine.DefaultConfig()
	config.Seed = 1
	o := f.Config
	if o == nil {
		return config
	}
	if o.LearningRate != nil {
		config.LearningRate = *o.LearningRate
	}
	if o.ExplorationRate != nil {
		config.ExplorationRate = *o.ExplorationRate
	}
	if o.ExplorationDecay != nil {
		config.ExplorationDecay = *o.ExplorationDecay
	}
	if o.BatchSize != nil {
		config.BatchSize = *o.BatchSize
	}
	if o.UpdateFrequency != nil {
		config.UpdateFrequency = *o.UpdateFrequency
	}
	if o.FractureThreshold != nil {
		config.FractureThreshold = *o.FractureThreshold
	}
	if o.PreFrameAnalysis != nil {
		config.PreFrameAnalysis = *o.PreFrameAnalysis
	}
	if o.StructuralChangeThreshold != nil {
		config.StructuralChangeThreshold = *o.StructuralChangeThreshold
	}
	if o.Seed != nil {
		config.Seed = *o.Seed
	}
	return config
}

// #endregion fixture-loader
