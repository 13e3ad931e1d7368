package tracing

// A Tracer can collect operation traces.
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}
