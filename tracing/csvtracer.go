package tracing

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTracer is a tracer that can store the tasks into a CSV file.
type CSVTracer struct {
	mu         sync.Mutex
	timeTeller TimeTeller
	path       string
	file       *os.File

	inflight   map[string]Task
	tasks      []Task
	bufferSize int
}

// NewCSVTracer creates a new CSVTracer. Init must be called before the tracer
// is used.
func NewCSVTracer(timeTeller TimeTeller, path string) *CSVTracer {
	return &CSVTracer{
		timeTeller: timeTeller,
		path:       path,
		inflight:   make(map[string]Task),
		bufferSize: 1000,
	}
}

// Init creates the tracing csv file. If the path is empty, a unique filename
// is generated.
func (t *CSVTracer) Init() {
	if t.path == "" {
		t.path = "memsim_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "ID, ParentID, Kind, What, Where, Start, End\n")

	atexit.Register(func() {
		t.Flush()
		err := t.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// StartTask marks the start of an operation.
func (t *CSVTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task.StartTime = t.timeTeller.CurrentTime()
	t.inflight[task.ID] = task
}

// StepTask does nothing, as steps are not part of the CSV format.
func (t *CSVTracer) StepTask(_ Task) {
	// Do nothing.
}

// EndTask marks the end of an operation and buffers the completed task.
func (t *CSVTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.inflight[task.ID]
	if !ok {
		return
	}
	delete(t.inflight, task.ID)

	originalTask.EndTime = t.timeTeller.CurrentTime()
	t.tasks = append(t.tasks, originalTask)

	if len(t.tasks) >= t.bufferSize {
		t.flushLocked()
	}
}

// Flush writes the buffered tasks to the CSV file.
func (t *CSVTracer) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.flushLocked()
}

func (t *CSVTracer) flushLocked() {
	for _, task := range t.tasks {
		fmt.Fprintf(t.file, "%s, %s, %s, %s, %s, %.10f, %.10f\n",
			task.ID,
			task.ParentID,
			task.Kind,
			task.What,
			task.Where,
			task.StartTime,
			task.EndTime,
		)
	}

	t.tasks = nil
}
