package policy

// #region action

// Action identifies one discrete intervention the host can apply.
type Action string

const (
	ActionReduceComplexity       Action = "reduce_complexity"
	ActionIncreaseSpacing        Action = "increase_spacing"
	ActionDimPeriphery           Action = "dim_periphery"
	ActionHighlightFocus         Action = "highlight_focus"
	ActionDelayNotifications     Action = "delay_notifications"
	ActionSimplifyNavigation     Action = "simplify_navigation"
	ActionIncreaseContrast       Action = "increase_contrast"
	ActionReduceAnimation        Action = "reduce_animation"
	ActionGroupRelatedElements   Action = "group_related_elements"
	ActionProvideContextHint     Action = "provide_context_hint"
	ActionAdjustColorTemperature Action = "adjust_color_temperature"
	ActionModifyLayoutDensity    Action = "modify_layout_density"

	// ActionNone is the do-nothing action that negative examples train
	// against. It shares the value vector but is never explored.
	ActionNone Action = "no_action"
)

// #endregion action

// #region experience

// Experience is one RL training tuple extracted from a fracture.
type Experience struct {
	State        StateKey
	Action       Action
	Reward       float64
	NextState    StateKey
	Terminal     bool
	Hypothetical bool
}

// #endregion experience

// #region config

// Config holds the learner's tuning knobs.
type Config struct {
	LearningRate          float64 // TD step size, (0, 1]
	DiscountFactor        float64 // future value weight
	ExplorationRate       float64 // initial epsilon, [0, 1]
	ExplorationDecay      float64 // per-frame multiplicative decay, (0, 1]
	ExplorationFloor      float64 // epsilon never drops below this
	MemorySize            int     // replay buffer capacity, > 0
	BatchSize             int     // uniform sample size per batch replay, > 0
	PolicyUpdateThreshold int     // TD updates accumulated before a policy rebuild
	Temperature           float64 // softmax temperature for policy derivation
}

// DefaultConfig returns the standard learner parameters.
func DefaultConfig() Config {
	return Config{
		LearningRate:          0.1,
		DiscountFactor:        0.95,
		ExplorationRate:       0.2,
		ExplorationDecay:      0.995,
		ExplorationFloor:      0.01,
		MemorySize:            1000,
		BatchSize:             32,
		PolicyUpdateThreshold: 50,
		Temperature:           1.0,
	}
}

// #endregion config
