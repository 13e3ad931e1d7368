package tracing

// A TaskStep represents a milestone in the processing of a task, such as one
// block relocation during defragmentation.
type TaskStep struct {
	Time float64 `json:"time"`
	Kind string  `json:"kind"`
	What string  `json:"what"`
}

// A Task is one traced memory operation. Kind is one of "alloc", "free",
// "defrag", "write", and "read". Where names the manager that performed the
// operation.
type Task struct {
	ID        string      `json:"id"`
	ParentID  string      `json:"parent_id"`
	Kind      string      `json:"kind"`
	What      string      `json:"what"`
	Where     string      `json:"where"`
	StartTime float64     `json:"start_time"`
	EndTime   float64     `json:"end_time"`
	Steps     []TaskStep  `json:"steps"`
	Detail    interface{} `json:"-"`
}
