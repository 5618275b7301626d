package policy

import (
	"math"
	"math/rand"
	"time"

	"github.com/fracturelabs/antifragile/go-engine/internal/pathway"
)

// #region learner

// Learner owns the discretized Q-table, the bounded experience replay
// buffer, and the softmax policy derived from the table. All methods
// assume exclusive access during a call; the engine serializes them.
type Learner struct {
	config Config
	rng    *rand.Rand

	q      map[StateKey][]float64
	policy map[StateKey][]float64
	replay []Experience

	exploration         float64
	updatesSinceRebuild int
	lastPolicyUpdate    time.Time
}

// NewLearner creates a learner. rng drives exploration and batch
// sampling; pass a seeded source for deterministic runs.
func NewLearner(config Config, rng *rand.Rand) *Learner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Learner{
		config:      config,
		rng:         rng,
		q:           make(map[StateKey][]float64),
		policy:      make(map[StateKey][]float64),
		exploration: config.ExplorationRate,
	}
}

// Reset drops all learned state and restores the configured
// exploration rate. The only way the Q-table is ever cleared.
func (l *Learner) Reset() {
	l.q = make(map[StateKey][]float64)
	l.policy = make(map[StateKey][]float64)
	l.replay = nil
	l.exploration = l.config.ExplorationRate
	l.updatesSinceRebuild = 0
}

// #endregion learner

// #region experience-extraction

// ExtractExperiences converts a fracture analysis into training tuples:
// real negative examples for every elevated pre-fracture frame, and
// hypothetical positives for every detected intervention point.
//
// Hypothetical tuples reuse state as nextState; no post-intervention
// outcome is simulated. Known limitation, kept as-is.
func (l *Learner) ExtractExperiences(a pathway.Analysis) []Experience {
	var exps []Experience

	for i, f := range a.PreFrames {
		if f.FI <= 0.5 {
			continue
		}
		key := FrameKey(f)
		next := key
		if i+1 < len(a.PreFrames) {
			next = FrameKey(a.PreFrames[i+1])
		}
		exps = append(exps, Experience{
			State:     key,
			Action:    ActionNone,
			Reward:    -f.FI * f.FI,
			NextState: next,
			Terminal:  i == len(a.PreFrames)-1,
		})
	}

	for _, p := range a.Interventions {
		if p.Index < 0 || p.Index >= len(a.PreFrames) {
			continue
		}
		key := FrameKey(a.PreFrames[p.Index])
		exps = append(exps, Experience{
			State:        key,
			Action:       opportunityAction[p.Type],
			Reward:       potentialReward[p.Potential],
			NextState:    key,
			Hypothetical: true,
		})
	}

	return exps
}

// Record appends an experience to the replay buffer, evicting the
// oldest entry once the buffer is full.
func (l *Learner) Record(exp Experience) {
	if len(l.replay) >= l.config.MemorySize {
		copy(l.replay, l.replay[1:])
		l.replay = l.replay[:len(l.replay)-1]
	}
	l.replay = append(l.replay, exp)
}

// #endregion experience-extraction

// #region td-update

// Apply runs one TD update at the configured learning rate.
func (l *Learner) Apply(exp Experience) bool {
	return l.applyTD(exp, l.config.LearningRate)
}

// applyTD moves Q[s][a] toward the TD target. Unknown action strings
// are skipped silently; nothing in the numeric path errors.
func (l *Learner) applyTD(exp Experience, rate float64) bool {
	idx, ok := actionIndex[exp.Action]
	if !ok {
		return false
	}

	row, ok := l.q[exp.State]
	if !ok {
		row = make([]float64, len(allActions))
		l.q[exp.State] = row
	}

	target := exp.Reward
	if !exp.Terminal {
		target += l.config.DiscountFactor * l.maxQ(exp.NextState)
	}
	row[idx] += rate * (target - row[idx])

	l.updatesSinceRebuild++
	if l.config.PolicyUpdateThreshold > 0 && l.updatesSinceRebuild >= l.config.PolicyUpdateThreshold {
		l.RebuildPolicy()
	}
	return true
}

// maxQ returns max(Q[s']) with a missing state reading as a zero
// vector.
func (l *Learner) maxQ(key StateKey) float64 {
	row, ok := l.q[key]
	if !ok {
		return 0
	}
	max := row[0]
	for _, v := range row[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// #endregion td-update

// #region batch-learning

// BatchReplay samples BatchSize experiences uniformly with replacement
// and applies TD updates, then fully recomputes the policy. Returns the
// number of updates applied; 0 when the buffer is still warming up.
func (l *Learner) BatchReplay() int {
	if len(l.replay) < l.config.BatchSize {
		return 0
	}
	applied := 0
	for i := 0; i < l.config.BatchSize; i++ {
		exp := l.replay[l.rng.Intn(len(l.replay))]
		if l.applyTD(exp, l.config.LearningRate) {
			applied++
		}
	}
	l.RebuildPolicy()
	return applied
}

// UrgentLearn applies only the non-hypothetical experiences at a
// doubled learning rate, then recomputes the policy unconditionally.
// Used when a fracture is severe enough that waiting for the next
// batch would waste the signal.
func (l *Learner) UrgentLearn(exps []Experience) int {
	rate := l.config.LearningRate * 2
	if rate > 1 {
		rate = 1
	}
	applied := 0
	for _, exp := range exps {
		if exp.Hypothetical {
			continue
		}
		if l.applyTD(exp, rate) {
			applied++
		}
	}
	l.RebuildPolicy()
	return applied
}

// #endregion batch-learning

// #region policy-derivation

// RebuildPolicy recomputes softmax action distributions for every
// state in the Q-table, replacing the previous policy wholesale.
// O(|states|) per call; fine at these table sizes.
func (l *Learner) RebuildPolicy() {
	next := make(map[StateKey][]float64, len(l.q))
	for key, row := range l.q {
		next[key] = softmax(row, l.config.Temperature)
	}
	l.policy = next
	l.updatesSinceRebuild = 0
	l.lastPolicyUpdate = time.Now().UTC()
}

// softmax converts a value row into a probability vector.
func softmax(row []float64, temperature float64) []float64 {
	if temperature <= 0 {
		temperature = 1
	}
	max := row[0]
	for _, v := range row[1:] {
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(row))
	var sum float64
	for i, v := range row {
		out[i] = math.Exp((v - max) / temperature)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// #endregion policy-derivation

// #region serving

// OptimalAction serves an action for the given state: uniform random
// for unseen states, epsilon-greedy on the policy mode otherwise. The
// mode is always picked, never sampled from the distribution.
func (l *Learner) OptimalAction(key StateKey) Action {
	probs, ok := l.policy[key]
	if !ok {
		return InterventionActions[l.rng.Intn(len(InterventionActions))]
	}
	if l.rng.Float64() < l.exploration {
		return InterventionActions[l.rng.Intn(len(InterventionActions))]
	}
	best := 0
	for i, p := range probs[1:] {
		if p > probs[best] {
			best = i + 1
		}
	}
	return allActions[best]
}

// GreedyAction returns the current policy mode for a state without
// exploration, plus whether the state has been learned at all.
func (l *Learner) GreedyAction(key StateKey) (Action, bool) {
	probs, ok := l.policy[key]
	if !ok {
		return "", false
	}
	best := 0
	for i, p := range probs[1:] {
		if p > probs[best] {
			best = i + 1
		}
	}
	return allActions[best], true
}

// DecayExploration applies one tick of epsilon decay, flooring at the
// configured minimum. Called once per processed frame, fracture or not.
func (l *Learner) DecayExploration() {
	l.exploration *= l.config.ExplorationDecay
	if l.exploration < l.config.ExplorationFloor {
		l.exploration = l.config.ExplorationFloor
	}
}

// #endregion serving

// #region accessors

// ExplorationRate returns the current epsilon.
func (l *Learner) ExplorationRate() float64 { return l.exploration }

// QTableSize returns the number of distinct discretized states learned.
func (l *Learner) QTableSize() int { return len(l.q) }

// StatesLearned returns the number of states in the derived policy.
func (l *Learner) StatesLearned() int { return len(l.policy) }

// ReplayLen returns the replay buffer occupancy.
func (l *Learner) ReplayLen() int { return len(l.replay) }

// LastPolicyUpdate returns when the policy was last rebuilt.
func (l *Learner) LastPolicyUpdate() time.Time { return l.lastPolicyUpdate }

// QValue exposes a single table entry, mainly for tests and the
// inspect tooling.
func (l *Learner) QValue(key StateKey, a Action) (float64, bool) {
	row, ok := l.q[key]
	if !ok {
		return 0, false
	}
	idx, ok := actionIndex[a]
	if !ok {
		return 0, false
	}
	return row[idx], true
}

// #endregion accessors
