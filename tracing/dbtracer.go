package tracing

import (
	"sync"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/memsim/datarecording"
)

// taskTableEntry is the row schema of the trace table. The Where field of a
// Task is stored as Location, since Where is a reserved word in SQL.
type taskTableEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime float64
	EndTime   float64
}

// DBTracer is a tracer that stores completed tasks through a
// datarecording.DataRecorder backend.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller TimeTeller
	backend    datarecording.DataRecorder

	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(
	timeTeller TimeTeller,
	backend datarecording.DataRecorder,
) *DBTracer {
	t := &DBTracer{
		timeTeller:   timeTeller,
		backend:      backend,
		tracingTasks: make(map[string]Task),
	}

	backend.CreateTable("trace", taskTableEntry{})

	atexit.Register(func() { t.backend.Flush() })

	return t
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startingTaskMustBeValid(task)

	task.StartTime = t.timeTeller.CurrentTime()
	t.tracingTasks[task.ID] = task
}

func (t *DBTracer) startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task where must be set")
	}
}

// StepTask does nothing for now.
func (t *DBTracer) StepTask(_ Task) {
	// Do nothing.
}

// EndTask marks the end of a task and records it.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}
	delete(t.tracingTasks, task.ID)

	originalTask.EndTime = t.timeTeller.CurrentTime()

	t.backend.InsertData("trace", taskTableEntry{
		ID:        originalTask.ID,
		ParentID:  originalTask.ParentID,
		Kind:      originalTask.Kind,
		What:      originalTask.What,
		Location:  originalTask.Where,
		StartTime: originalTask.StartTime,
		EndTime:   originalTask.EndTime,
	})
}
