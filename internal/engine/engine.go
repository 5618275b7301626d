package engine

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fracturelabs/antifragile/go-engine/internal/frame"
	"github.com/fracturelabs/antifragile/go-engine/internal/mining"
	"github.com/fracturelabs/antifragile/go-engine/internal/pathway"
	"github.com/fracturelabs/antifragile/go-engine/internal/policy"
)

// #region engine

// fractureHistoryCap bounds the retained fracture event history. The
// total counter keeps running past it.
const fractureHistoryCap = 100

// urgentSeverity is the FI above which a fracture triggers immediate
// learning instead of waiting for the next batch replay.
const urgentSeverity = 0.8

// Engine is the single-threaded coordinator: it owns the frame window,
// the learner, the miner, and the user profile, and advances all of
// them one frame at a time. All public methods are safe for concurrent
// use; internally everything runs under one mutex.
type Engine struct {
	mu     sync.Mutex
	config Config

	buffer  *frame.Buffer
	learner *policy.Learner
	miner   *mining.Miner
	profile *mining.Profile

	history []mining.Event

	framesProcessed    int
	totalFractures     int
	preventedFractures int
	adaptationCount    int

	now func() time.Time
}

// New validates the configuration and builds an engine. Seed 0 means
// clock-seeded exploration; any other value makes runs reproducible.
func New(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	var rng *rand.Rand
	if config.Seed != 0 {
		rng = rand.New(rand.NewSource(config.Seed))
	}
	return &Engine{
		config:  config,
		buffer:  frame.NewBuffer(config.PreFrameAnalysis + config.PostFrameAnalysis + 5),
		learner: policy.NewLearner(config.learnerConfig(), rng),
		miner:   mining.NewMiner(mining.Config{WindowSize: config.StructuralChangeThreshold}),
		profile: mining.NewProfile(),
		now:     time.Now,
	}, nil
}

// Reset drops every piece of learned state: Q-table, policy, replay
// buffer, profile, history, and counters. The only way any of them is
// ever cleared.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.learner.Reset()
	e.profile = mining.NewProfile()
	e.history = nil
	e.framesProcessed = 0
	e.totalFractures = 0
	e.preventedFractures = 0
	e.adaptationCount = 0
}

// #endregion engine

// #region tick

// ProcessFrame advances the engine by one frame and returns everything
// the tick produced. Disabled engines ignore frames entirely.
func (e *Engine) ProcessFrame(rec frame.Record) TickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.config.Enabled {
		return TickResult{}
	}

	f := rec.ToFrame(e.now())
	e.buffer.Append(f)
	e.framesProcessed++
	e.learner.DecayExploration()

	res := TickResult{Frame: f}

	if f.FI > e.config.FractureThreshold {
		res.Fractured = true
		res.Fracture = e.processFracture(f)
		if e.totalFractures%e.config.StructuralChangeThreshold == 0 {
			res.Structural = e.runMiningPass()
		}
	} else if f.FI > 0.9*e.config.FractureThreshold {
		// Elevated but below threshold: count it as a near miss.
		e.preventedFractures++
	}

	if e.framesProcessed%e.config.UpdateFrequency == 0 {
		if applied := e.learner.BatchReplay(); applied > 0 {
			e.adaptationCount++
			res.Policy = &PolicyUpdated{
				StatesLearned:   e.learner.StatesLearned(),
				AdaptationCount: e.adaptationCount,
			}
		}
	}

	res.Action = e.learner.OptimalAction(policy.FrameKey(f))
	return res
}

// processFracture runs the full per-fracture sequence: pathway
// analysis, experience extraction, urgent learning for severe events,
// and profile/history bookkeeping.
func (e *Engine) processFracture(trigger frame.Frame) *FractureProcessed {
	// The window includes the trigger as its last element; analysis
	// wants only the frames leading up to it.
	window := e.buffer.Last(e.config.PreFrameAnalysis + 1)
	pre := window[:len(window)-1]

	analysis := pathway.Analyze(pre, trigger, e.config.FractureThreshold)

	ev := FractureEvent{
		ID:       uuid.NewString(),
		At:       trigger.Timestamp,
		Severity: trigger.FI,
		Context:  trigger.Context(),
		Analysis: analysis,
	}

	exps := e.learner.ExtractExperiences(analysis)
	for _, exp := range exps {
		e.learner.Record(exp)
	}

	urgent := 0
	if trigger.FI > urgentSeverity {
		urgent = e.learner.UrgentLearn(exps)
		e.adaptationCount++
	}

	minedEv := mining.Event{
		ID:       ev.ID,
		At:       ev.At,
		Severity: ev.Severity,
		Domain:   trigger.Domain,
		Task:     trigger.Task,
		Factors:  analysis.Factors,
		State:    policy.FrameKey(trigger),
	}
	e.profile.Observe(minedEv)
	e.history = append(e.history, minedEv)
	if len(e.history) > fractureHistoryCap {
		e.history = e.history[len(e.history)-fractureHistoryCap:]
	}
	e.totalFractures++

	log.Printf("[ENGINE] fracture %s severity=%.2f context=%s experiences=%d urgent=%d",
		ev.ID, ev.Severity, ev.Context, len(exps), urgent)

	return &FractureProcessed{
		Event:           ev,
		Experiences:     len(exps),
		UrgentUpdates:   urgent,
		AdaptationCount: e.adaptationCount,
	}
}

// runMiningPass analyzes the most recent fracture window and emits
// advisory proposals.
func (e *Engine) runMiningPass() *StructuralAdaptation {
	window := e.history
	if len(window) > e.config.StructuralChangeThreshold {
		window = window[len(window)-e.config.StructuralChangeThreshold:]
	}
	insights := e.miner.Analyze(window, e.profile)
	proposals := mining.ProposeStructuralChanges(insights, window)

	log.Printf("[ENGINE] mining pass fractures=%d temporal=%d triggers=%d vulnerabilities=%d proposals=%d",
		e.totalFractures, len(insights.Temporal), len(insights.Triggers),
		len(insights.Vulnerabilities), len(proposals))

	return &StructuralAdaptation{
		Insights:      insights,
		Proposals:     proposals,
		FractureCount: e.totalFractures,
	}
}

// #endregion tick

// #region serving

// OptimalAction serves the current recommendation for an arbitrary
// record without advancing the engine.
func (e *Engine) OptimalAction(rec frame.Record) policy.Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.learner.OptimalAction(policy.FrameKey(rec.ToFrame(e.now())))
}

// GreedyAction returns the learned policy mode for a record, plus
// whether its state has been seen at all. No exploration.
func (e *Engine) GreedyAction(rec frame.Record) (policy.Action, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.learner.GreedyAction(policy.FrameKey(rec.ToFrame(e.now())))
}

// #endregion serving

// #region status

// Status snapshots the engine for reporting.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Status{
		Enabled:               e.config.Enabled,
		TotalFractures:        e.totalFractures,
		PreventedFractures:    e.preventedFractures,
		AdaptationCount:       e.adaptationCount,
		ExplorationRate:       e.learner.ExplorationRate(),
		QTableSize:            e.learner.QTableSize(),
		ReplayBufferSize:      e.learner.ReplayLen(),
		LastPolicyUpdate:      e.learner.LastPolicyUpdate(),
		Profile:               e.profile.Snapshot(),
		RecentFractureRate:    e.recentFractureRate(),
		LearningEffectiveness: e.learningEffectiveness(),
	}
}

// recentFractureRate counts history events inside the trailing hour
// and normalizes to fractures per minute.
func (e *Engine) recentFractureRate() float64 {
	cutoff := e.now().Add(-time.Hour)
	recent := 0
	for _, ev := range e.history {
		if ev.At.After(cutoff) {
			recent++
		}
	}
	return float64(recent) / 60
}

// learningEffectiveness compares mean severity of the last 10
// fractures against the 10 before them. Positive means fractures are
// getting milder. Zero until at least 5 fractures have been seen.
func (e *Engine) learningEffectiveness() float64 {
	if e.totalFractures < 5 || len(e.history) < 2 {
		return 0
	}
	split := len(e.history) - 10
	if split < 1 {
		split = len(e.history) / 2
	}
	earlierFrom := split - 10
	if earlierFrom < 0 {
		earlierFrom = 0
	}
	earlier := e.history[earlierFrom:split]
	recent := e.history[split:]
	if len(earlier) == 0 || len(recent) == 0 {
		return 0
	}
	earlierMean := meanSeverity(earlier)
	if earlierMean <= 0 {
		return 0
	}
	return (earlierMean - meanSeverity(recent)) / earlierMean
}

func meanSeverity(events []mining.Event) float64 {
	var sum float64
	for _, ev := range events {
		sum += ev.Severity
	}
	return sum / float64(len(events))
}

// #endregion status
