package bus

import "fmt"

const (
	RoutingJobCreated   = "job.created"
	RoutingYoutubeUpload = "youtube.upload"

	QueueOrchestratorJobs   = "orchestrator.jobs"
	QueueOrchestratorEvents = "orchestrator.events"
)

// StageWorkKey returns the routing key an orchestrator publishes a stage
// envelope to, e.g. "stage.asr".
func StageWorkKey(stage string) string {
	return fmt.Sprintf("stage.%s", stage)
}

// StageCompletedKey returns the routing key a worker publishes success to.
func StageCompletedKey(stage string) string {
	return fmt.Sprintf("stage.%s.completed", stage)
}

// StageFailedKey returns the routing key a worker publishes failure to.
func StageFailedKey(stage string) string {
	return fmt.Sprintf("stage.%s.failed", stage)
}

// StageResultPattern is the wildcard binding the orchestrator's events
// queue uses to catch every stage's completed and failed topics.
const StageResultPattern = "stage.*.*"

// StageAgentQueue returns the queue name a worker for stage binds to.
func StageAgentQueue(stage string) string {
	return fmt.Sprintf("%s-agent", stage)
}
