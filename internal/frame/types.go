package frame

import "time"

// #region record

// Record is the raw per-tick input at the ingestion boundary. Every
// field except FI is optional; zero values are the documented defaults
// and empty domain/task strings normalize to "unknown".
type Record struct {
	Timestamp          time.Time `json:"timestamp,omitempty"` // zero → host clock
	FI                 float64   `json:"fi"`
	StressLevel        float64   `json:"stress_level,omitempty"`
	TaskComplexity     float64   `json:"task_complexity,omitempty"`
	TimeInSession      float64   `json:"time_in_session,omitempty"` // milliseconds
	RecentInteractions float64   `json:"recent_interactions,omitempty"`
	NotificationCount  float64   `json:"notification_count,omitempty"`
	UIComplexity       float64   `json:"ui_complexity,omitempty"`
	CognitiveLoadTrend float64   `json:"cognitive_load_trend,omitempty"`
	Domain             string    `json:"domain,omitempty"`
	Task               string    `json:"task,omitempty"`
	TaskSwitches       float64   `json:"task_switches,omitempty"`
}

// #endregion record

// #region frame

// Frame is one validated tick of the signal stream.
type Frame struct {
	Timestamp          time.Time
	FI                 float64
	StressLevel        float64
	TaskComplexity     float64
	TimeInSession      float64
	RecentInteractions float64
	NotificationCount  float64
	UIComplexity       float64
	CognitiveLoadTrend float64
	Domain             string
	Task               string
	TaskSwitches       float64
}

// ToFrame normalizes a Record into a Frame, applying defaults.
// now supplies the timestamp when the record carries none.
func (r Record) ToFrame(now time.Time) Frame {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = now
	}
	domain := r.Domain
	if domain == "" {
		domain = "unknown"
	}
	task := r.Task
	if task == "" {
		task = "unknown"
	}
	return Frame{
		Timestamp:          ts,
		FI:                 r.FI,
		StressLevel:        r.StressLevel,
		TaskComplexity:     r.TaskComplexity,
		TimeInSession:      r.TimeInSession,
		RecentInteractions: r.RecentInteractions,
		NotificationCount:  r.NotificationCount,
		UIComplexity:       r.UIComplexity,
		CognitiveLoadTrend: r.CognitiveLoadTrend,
		Domain:             domain,
		Task:               task,
		TaskSwitches:       r.TaskSwitches,
	}
}

// Context returns the "domain:task" grouping key for this frame.
func (f Frame) Context() string {
	return f.Domain + ":" + f.Task
}

// #endregion frame
