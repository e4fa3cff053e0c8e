package domain

import "time"

// CoordinatorState is the lifecycle state of the sync coordinator.
type CoordinatorState string

const (
	CoordinatorStopped CoordinatorState = "stopped"
	CoordinatorRunning CoordinatorState = "running"
	CoordinatorSyncing CoordinatorState = "syncing"
)

func (s CoordinatorState) String() string { return string(s) }

// SyncStatus is a point-in-time snapshot of the coordinator. Snapshots are
// immutable once published.
type SyncStatus struct {
	State              CoordinatorState `json:"state"`
	LastSyncAttempt    *time.Time       `json:"last_sync_attempt"`
	LastSuccessfulSync *time.Time       `json:"last_successful_sync"`
	PendingCount       int              `json:"pending_count"`
	Reachable          bool             `json:"reachable"`
	InProgress         bool             `json:"sync_in_progress"`
}

// DrainResult reports one drain cycle. A drain where some entries failed is
// still Success; Failed and Remaining say what is left.
type DrainResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Processed int    `json:"operations_processed"`
	Failed    int    `json:"operations_failed"`
	Remaining int    `json:"operations_remaining"`
}
