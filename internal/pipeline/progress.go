package pipeline

import (
	"sync"

	"github.com/jonathan/learnscout/internal/types"
)

// ProgressSink receives milestone events synchronously, in order.
type ProgressSink func(event types.ProgressEvent)

// Stage is a named pipeline milestone with its ordinal percentage.
type Stage struct {
	Name       string
	Percentage int
}

// Pipeline milestones in emission order.
var (
	stageKickoff     = Stage{Name: "kickoff", Percentage: 0}
	stageCommunities = Stage{Name: "communities", Percentage: 10}
	stageScoped      = Stage{Name: "communities_resolved", Percentage: 25}
	stageSearch      = Stage{Name: "search", Percentage: 40}
	stageRelevance   = Stage{Name: "relevance", Percentage: 60}
	stageDetails     = Stage{Name: "details", Percentage: 75}
	stagePackaging   = Stage{Name: "packaging", Percentage: 90}
	stageDone        = Stage{Name: "done", Percentage: 100}
)

// Stages returns every milestone in emission order. Each call returns a fresh slice.
func Stages() []Stage {
	return []Stage{
		stageKickoff,
		stageCommunities,
		stageScoped,
		stageSearch,
		stageRelevance,
		stageDetails,
		stagePackaging,
		stageDone,
	}
}

// Reporter stamps events with the run ID and keeps percentages non-decreasing within
// [0,100]. It is safe for concurrent use; a nil sink discards events.
type Reporter struct {
	mu    sync.Mutex
	sink  ProgressSink
	runID string
	last  int
}

// NewReporter creates a reporter for one run.
func NewReporter(runID string, sink ProgressSink) *Reporter {
	return &Reporter{sink: sink, runID: runID}
}

// Report emits message at stage. A percentage lower than one already emitted is raised to
// the previous value.
func (r *Reporter) Report(stage Stage, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pct := min(max(stage.Percentage, 0), 100)
	if pct < r.last {
		pct = r.last
	}
	r.last = pct

	if r.sink == nil {
		return
	}
	r.sink(types.ProgressEvent{
		RunID:      r.runID,
		Stage:      stage.Name,
		Message:    message,
		Percentage: pct,
	})
}

// Last returns the most recent percentage emitted.
func (r *Reporter) Last() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
