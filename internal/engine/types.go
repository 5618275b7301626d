package engine

import (
	"fmt"
	"time"

	"github.com/fracturelabs/antifragile/go-engine/internal/frame"
	"github.com/fracturelabs/antifragile/go-engine/internal/mining"
	"github.com/fracturelabs/antifragile/go-engine/internal/pathway"
	"github.com/fracturelabs/antifragile/go-engine/internal/policy"
)

// #region config

// Config is the full set of recognized engine options. Construction is
// the only fail-fast surface in the system: Validate rejects anything
// out of range before a single frame is processed.
type Config struct {
	Enabled                   bool    `yaml:"enabled"`
	LearningRate              float64 `yaml:"learning_rate"`               // (0, 1]
	ExplorationRate           float64 `yaml:"exploration_rate"`            // [0, 1]
	ExplorationDecay          float64 `yaml:"exploration_decay"`           // (0, 1]
	MemorySize                int     `yaml:"memory_size"`                 // > 0
	BatchSize                 int     `yaml:"batch_size"`                  // > 0
	UpdateFrequency           int     `yaml:"update_frequency"`            // frames between batch replays, > 0
	FractureThreshold         float64 `yaml:"fracture_threshold"`          // [0, 1]
	PreFrameAnalysis          int     `yaml:"pre_frame_analysis"`          // >= 0
	PostFrameAnalysis         int     `yaml:"post_frame_analysis"`         // >= 0
	PolicyUpdateThreshold     int     `yaml:"policy_update_threshold"`     // TD updates per forced rebuild
	StructuralChangeThreshold int     `yaml:"structural_change_threshold"` // fractures per mining pass, > 0
	Seed                      int64   `yaml:"seed"`                        // 0 = clock-seeded
}

// DefaultConfig returns the standard engine parameters.
func DefaultConfig() Config {
	return Config{
		Enabled:                   true,
		LearningRate:              0.1,
		ExplorationRate:           0.2,
		ExplorationDecay:          0.995,
		MemorySize:                1000,
		BatchSize:                 32,
		UpdateFrequency:           10,
		FractureThreshold:         0.75,
		PreFrameAnalysis:          10,
		PostFrameAnalysis:         5,
		PolicyUpdateThreshold:     50,
		StructuralChangeThreshold: 20,
	}
}

// Validate rejects out-of-range options.
func (c Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning_rate %f outside (0, 1]", c.LearningRate)
	}
	if c.ExplorationRate < 0 || c.ExplorationRate > 1 {
		return fmt.Errorf("exploration_rate %f outside [0, 1]", c.ExplorationRate)
	}
	if c.ExplorationDecay <= 0 || c.ExplorationDecay > 1 {
		return fmt.Errorf("exploration_decay %f outside (0, 1]", c.ExplorationDecay)
	}
	if c.MemorySize <= 0 {
		return fmt.Errorf("memory_size %d must be positive", c.MemorySize)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size %d must be positive", c.BatchSize)
	}
	if c.UpdateFrequency <= 0 {
		return fmt.Errorf("update_frequency %d must be positive", c.UpdateFrequency)
	}
	if c.FractureThreshold < 0 || c.FractureThreshold > 1 {
		return fmt.Errorf("fracture_threshold %f outside [0, 1]", c.FractureThreshold)
	}
	if c.PreFrameAnalysis < 0 {
		return fmt.Errorf("pre_frame_analysis %d must be non-negative", c.PreFrameAnalysis)
	}
	if c.PostFrameAnalysis < 0 {
		return fmt.Errorf("post_frame_analysis %d must be non-negative", c.PostFrameAnalysis)
	}
	if c.PolicyUpdateThreshold < 0 {
		return fmt.Errorf("policy_update_threshold %d must be non-negative", c.PolicyUpdateThreshold)
	}
	if c.StructuralChangeThreshold <= 0 {
		return fmt.Errorf("structural_change_threshold %d must be positive", c.StructuralChangeThreshold)
	}
	return nil
}

// learnerConfig projects the engine options onto the learner's knobs.
func (c Config) learnerConfig() policy.Config {
	lc := policy.DefaultConfig()
	lc.LearningRate = c.LearningRate
	lc.ExplorationRate = c.ExplorationRate
	lc.ExplorationDecay = c.ExplorationDecay
	lc.MemorySize = c.MemorySize
	lc.BatchSize = c.BatchSize
	lc.PolicyUpdateThreshold = c.PolicyUpdateThreshold
	return lc
}

// #endregion config

// #region fracture-event

// FractureEvent is one detected fracture with its full analysis.
type FractureEvent struct {
	ID       string
	At       time.Time
	Severity float64 // the triggering FI
	Context  string  // "domain:task"
	Analysis pathway.Analysis
}

// #endregion fracture-event

// #region tick-result

// FractureProcessed reports the learning work done for one fracture.
type FractureProcessed struct {
	Event           FractureEvent
	Experiences     int // tuples extracted into the replay buffer
	UrgentUpdates   int // immediate TD updates (severity > 0.8 only)
	AdaptationCount int
}

// PolicyUpdated reports a completed batch replay.
type PolicyUpdated struct {
	StatesLearned   int
	AdaptationCount int
}

// StructuralAdaptation carries advisory mining output.
type StructuralAdaptation struct {
	Insights      mining.Insights
	Proposals     []mining.ChangeProposal
	FractureCount int
}

// TickResult is everything one ProcessFrame call produced. The host
// dispatches the non-nil events however it likes; nothing is pushed
// asynchronously.
type TickResult struct {
	Frame     frame.Frame
	Fractured bool
	Action    policy.Action // recommended intervention for this tick's state

	Fracture   *FractureProcessed
	Policy     *PolicyUpdated
	Structural *StructuralAdaptation
}

// #endregion tick-result

// #region status

// Status is a point-in-time snapshot of the engine.
type Status struct {
	Enabled               bool           `json:"enabled"`
	TotalFractures        int            `json:"total_fractures"`
	PreventedFractures    int            `json:"prevented_fractures"`
	AdaptationCount       int            `json:"adaptation_count"`
	ExplorationRate       float64        `json:"exploration_rate"`
	QTableSize            int            `json:"qtable_size"`
	ReplayBufferSize      int            `json:"replay_buffer_size"`
	LastPolicyUpdate      time.Time      `json:"last_policy_update"`
	Profile               mining.Profile `json:"profile"`
	RecentFractureRate    float64        `json:"recent_fracture_rate"`   // fractures per minute over the last hour
	LearningEffectiveness float64        `json:"learning_effectiveness"` // severity reduction, last-10 vs prior-10
}

// #endregion status
