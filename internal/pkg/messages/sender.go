package messages

// Enqueuer puts a stage job on a named lane and returns the broker job id
type Enqueuer interface {
	Enqueue(msg *QueueMessage, lane string, opts *JobOpts) (string, error)
}
