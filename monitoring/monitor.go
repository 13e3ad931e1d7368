// Package monitoring turns memory managers into an HTTP server, so that the
// region occupancy and the block tables can be observed from outside the
// process.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/memsim/idgen"
	"github.com/sarchlab/memsim/manager"
)

// Monitor can turn a set of memory managers into a server and allows
// external observation of the simulated memory.
type Monitor struct {
	managers    []*manager.Comp
	portNumber  int
	openBrowser bool
	barIDs      idgen.Generator

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		barIDs: idgen.NewXID(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowserOpening makes the monitor open the server URL in a browser when
// the server starts.
func (m *Monitor) WithBrowserOpening() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterManager registers a memory manager to be monitored.
func (m *Monitor) RegisterManager(c *manager.Comp) {
	m.managers = append(m.managers, c)
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.barIDs.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) createRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_managers", m.listManagers)
	r.HandleFunc("/api/manager/{name}", m.listManagerDetails)
	r.HandleFunc("/api/snapshot/{name}", m.snapshot)
	r.HandleFunc("/api/blocks/{name}", m.listBlocks)
	r.HandleFunc("/api/utilization/{name}", m.utilization)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := m.createRouter()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring memory managers with %s\n", url)

	if m.openBrowser {
		err := browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
		}
	}

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()
}

func (m *Monitor) listManagers(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, c := range m.managers {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", c.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listManagerDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	c := m.findManagerOr404(w, name)
	if c == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(c)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) snapshot(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	c := m.findManagerOr404(w, name)
	if c == nil {
		return
	}

	rsp := struct {
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
		View     string `json:"view"`
	}{
		Name:     c.Name(),
		Capacity: c.Capacity(),
		View:     c.Snapshot(),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listBlocks(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	c := m.findManagerOr404(w, name)
	if c == nil {
		return
	}

	bytes, err := json.Marshal(c.Blocks())
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) utilization(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	c := m.findManagerOr404(w, name)
	if c == nil {
		return
	}

	fmt.Fprintf(w, "{\"utilization\":%.6f}", c.Utilization())
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findManagerOr404(
	w http.ResponseWriter,
	name string,
) *manager.Comp {
	for _, c := range m.managers {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Manager not found"))
	dieOnErr(err)

	return nil
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
