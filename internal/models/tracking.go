package models

// SimulationPhase is the lifecycle state of a delivery simulation run.
type SimulationPhase string

const (
	PhaseIdle      SimulationPhase = "idle"
	PhaseRunning   SimulationPhase = "running"
	PhaseCompleted SimulationPhase = "completed"
)

const (
	LabelArrived     = "Arrived"
	LabelArrivingNow = "Arriving now"
)

// SimulationState is the progress view rendered next to the tracking map.
// Running implies ProgressPercent < 100; ProgressPercent == 100 implies the
// run is over and the label reads "Arrived".
type SimulationState struct {
	Running            bool   `json:"running"`
	ProgressPercent    int    `json:"progress_percent"`
	EstimatedTimeLabel string `json:"estimated_time_label"`
}

// SimulationSnapshot is a consistent copy of the simulator handed to
// observers and API callers.
type SimulationSnapshot struct {
	SimulationState
	Phase   SimulationPhase  `json:"phase"`
	Step    int              `json:"step"`
	Steps   int              `json:"total_steps"`
	Pickup  *TrackedLocation `json:"pickup,omitempty"`
	Dropoff *TrackedLocation `json:"dropoff,omitempty"`
	Vehicle TrackedLocation  `json:"vehicle"`
}
