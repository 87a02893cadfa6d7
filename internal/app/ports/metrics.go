package ports

type ActionMetrics interface {
	RecordSuccess(operation string)
	RecordInvalidated(count int)
	RecordConflict()
	RecordFailure()
}
