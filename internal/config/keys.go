package config

import "fmt"

// RecomputeQueueKey is the Redis list the recompute worker drains. Producers
// RPush JSON-encoded jobs; the worker BLPops them.
const RecomputeQueueKey = "gradebook:recompute"

// SessionKey is the Redis key holding a student's active session JTI.
func SessionKey(studentID int) string {
	return fmt.Sprintf("session:student:%d", studentID)
}

// GradebookKey is the Redis key for a section's cached gradebook snapshot.
func GradebookKey(sectionID int) string {
	return fmt.Sprintf("gradebook:section:%d", sectionID)
}

// GradebookChannel is the Redis pub/sub channel carrying refreshed gradebook
// rows for a section's live watchers.
func GradebookChannel(sectionID int) string {
	return fmt.Sprintf("gradebook:section:%d:live", sectionID)
}
