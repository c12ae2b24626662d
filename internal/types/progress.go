package types

// ProgressEvent is a milestone update emitted while the pipeline advances.
// Percentage is an ordinal stage marker in [0,100], not measured throughput.
type ProgressEvent struct {
	RunID      string `json:"run_id,omitempty"`
	Stage      string `json:"stage,omitempty"`
	Message    string `json:"message"`
	Percentage int    `json:"percentage"`
}
