package tracing

import (
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/memsim/datarecording"
)

var _ = Describe("DBTracer", func() {
	var (
		mockController *gomock.Controller
		timeTeller     *MockTimeTeller
		db             *sql.DB
		backend        datarecording.DataRecorder
		tracer         *DBTracer
	)

	BeforeEach(func() {
		mockController = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockController)

		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())

		backend = datarecording.NewWithDB(db)
		tracer = NewDBTracer(timeTeller, backend)
	})

	AfterEach(func() {
		db.Close()
		mockController.Finish()
	})

	It("should create the trace table on construction", func() {
		var tableName string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name='trace';",
		).Scan(&tableName)
		Expect(err).NotTo(HaveOccurred())
		Expect(tableName).To(Equal("trace"))
	})

	It("should record a completed task", func() {
		timeTeller.EXPECT().CurrentTime().Return(1.0)
		tracer.StartTask(Task{
			ID:    "1",
			Kind:  "alloc",
			What:  "alloc 3",
			Where: "MemManager",
		})

		timeTeller.EXPECT().CurrentTime().Return(2.5)
		tracer.EndTask(Task{ID: "1"})

		backend.Flush()

		var kind, location string
		var start, end float64
		err := db.QueryRow(
			"SELECT Kind, Location, StartTime, EndTime FROM trace WHERE ID='1';",
		).Scan(&kind, &location, &start, &end)
		Expect(err).NotTo(HaveOccurred())
		Expect(kind).To(Equal("alloc"))
		Expect(location).To(Equal("MemManager"))
		Expect(start).To(Equal(1.0))
		Expect(end).To(Equal(2.5))
	})

	It("should ignore the end of an unknown task", func() {
		tracer.EndTask(Task{ID: "ghost"})

		backend.Flush()

		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM trace;").Scan(&count)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(0))
	})

	It("should reject tasks with missing fields", func() {
		Expect(func() {
			tracer.StartTask(Task{ID: "1", Kind: "alloc", What: "alloc 3"})
		}).To(Panic())
	})
})
