package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means the request was accepted but the engine was not invoked yet
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means the engine is writing the stream
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusCompleted means the file was written and located on disk
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading
}

// IsFinished returns true if the task is in a finished state (completed or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}
