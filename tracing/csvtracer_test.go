package tracing

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("CSVTracer", func() {
	var (
		mockController *gomock.Controller
		timeTeller     *MockTimeTeller
		path           string
		tracer         *CSVTracer
	)

	BeforeEach(func() {
		mockController = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockController)

		path = filepath.Join(GinkgoT().TempDir(), "trace")
		tracer = NewCSVTracer(timeTeller, path)
		tracer.Init()
	})

	AfterEach(func() {
		mockController.Finish()
	})

	It("should write completed tasks on flush", func() {
		timeTeller.EXPECT().CurrentTime().Return(1.0)
		tracer.StartTask(Task{
			ID:    "1",
			Kind:  "write",
			What:  "write 0+3@1",
			Where: "MemManager",
		})

		timeTeller.EXPECT().CurrentTime().Return(2.0)
		tracer.EndTask(Task{ID: "1"})

		tracer.Flush()

		content, err := os.ReadFile(path + ".csv")
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(HavePrefix("ID, ParentID, Kind, What, Where"))
		Expect(lines[1]).To(ContainSubstring("write 0+3@1"))
	})

	It("should panic if the trace file already exists", func() {
		again := NewCSVTracer(timeTeller, path)

		Expect(func() {
			again.Init()
		}).To(Panic())
	})
})
