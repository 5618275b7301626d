package policy

import (
	"fmt"
	"math"
	"strings"

	"github.com/fracturelabs/antifragile/go-engine/internal/frame"
)

// #region state-key

// StateKey is a discretized 8-dimensional state, each component rounded
// to the nearest 0.1 and stored as tenths. Distinct raw states collapse
// onto the same key on purpose: the loss is the generalization.
type StateKey [8]int16

// String renders the key in its dotted tenths form, for logs and the
// journal.
func (k StateKey) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = fmt.Sprintf("%.1f", float64(v)/10)
	}
	return strings.Join(parts, "|")
}

// MarshalText lets the key serve as a JSON map key in status output.
func (k StateKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// #endregion state-key

// #region state-vector

// Normalization caps for the session-scale dimensions.
const (
	sessionTimeScaleMs = 3600000 // one hour
	interactionScale   = 100
	notificationScale  = 20
)

// StateVector projects a frame onto the 8 learner dimensions. The three
// unbounded inputs are normalized and capped at 1.
func StateVector(f frame.Frame) [8]float64 {
	return [8]float64{
		f.FI,
		f.StressLevel,
		f.TaskComplexity,
		capUnit(f.TimeInSession / sessionTimeScaleMs),
		capUnit(f.RecentInteractions / interactionScale),
		capUnit(f.NotificationCount / notificationScale),
		f.UIComplexity,
		f.CognitiveLoadTrend,
	}
}

// Discretize rounds each component to the nearest 0.1.
func Discretize(v [8]float64) StateKey {
	var k StateKey
	for i, x := range v {
		k[i] = int16(math.Round(x * 10))
	}
	return k
}

// FrameKey is the composed projection most callers want.
func FrameKey(f frame.Frame) StateKey {
	return Discretize(StateVector(f))
}

// capUnit caps v at 1, leaving negatives untouched.
func capUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// #endregion state-vector
