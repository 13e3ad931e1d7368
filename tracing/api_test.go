package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/memsim/hooking"
)

var _ = Describe("Task API", func() {
	var (
		mockController *gomock.Controller
		domain         *MockNamedHookable
	)

	BeforeEach(func() {
		mockController = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockController)
	})

	AfterEach(func() {
		mockController.Finish()
	})

	It("should not invoke hooks if the domain has none", func() {
		domain.EXPECT().NumHooks().Return(0)

		StartTask("1", "", domain, "alloc", "alloc 3")
	})

	It("should invoke the task start hook", func() {
		var ctx hooking.HookCtx

		domain.EXPECT().NumHooks().Return(1)
		domain.EXPECT().Name().Return("MemManager").AnyTimes()
		domain.EXPECT().
			InvokeHook(gomock.Any()).
			Do(func(c hooking.HookCtx) { ctx = c })

		StartTask("1", "", domain, "alloc", "alloc 3")

		Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStart))
		task := ctx.Item.(Task)
		Expect(task.ID).To(Equal("1"))
		Expect(task.Kind).To(Equal("alloc"))
		Expect(task.What).To(Equal("alloc 3"))
		Expect(task.Where).To(Equal("MemManager"))
	})

	It("should panic if required fields are missing", func() {
		domain.EXPECT().NumHooks().Return(1).AnyTimes()
		domain.EXPECT().Name().Return("MemManager").AnyTimes()

		Expect(func() {
			StartTask("", "", domain, "alloc", "alloc 3")
		}).To(Panic())
		Expect(func() {
			StartTask("1", "", domain, "", "alloc 3")
		}).To(Panic())
		Expect(func() {
			StartTask("1", "", domain, "alloc", "")
		}).To(Panic())
	})

	It("should invoke the task step hook", func() {
		var ctx hooking.HookCtx

		domain.EXPECT().NumHooks().Return(1)
		domain.EXPECT().
			InvokeHook(gomock.Any()).
			Do(func(c hooking.HookCtx) { ctx = c })

		StepTask("1", domain, "relocate", "block 3: 4 -> 0")

		Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStep))
		task := ctx.Item.(Task)
		Expect(task.ID).To(Equal("1"))
		Expect(task.Steps).To(HaveLen(1))
		Expect(task.Steps[0].Kind).To(Equal("relocate"))
	})

	It("should invoke the task end hook", func() {
		var ctx hooking.HookCtx

		domain.EXPECT().NumHooks().Return(1)
		domain.EXPECT().
			InvokeHook(gomock.Any()).
			Do(func(c hooking.HookCtx) { ctx = c })

		EndTask("1", domain)

		Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskEnd))
		Expect(ctx.Item.(Task).ID).To(Equal("1"))
	})
})

var _ = Describe("CollectTrace", func() {
	It("should attach a trace hook to the domain", func() {
		domain := &hookableDomain{}
		tracer := &collectingTracer{}

		CollectTrace(domain, tracer)

		Expect(domain.NumHooks()).To(Equal(1))

		domain.InvokeHook(hooking.HookCtx{
			Pos:  HookPosTaskStart,
			Item: Task{ID: "1", Kind: "alloc", What: "alloc 3", Where: "M"},
		})
		domain.InvokeHook(hooking.HookCtx{
			Pos:  HookPosTaskEnd,
			Item: Task{ID: "1"},
		})

		Expect(tracer.started).To(HaveLen(1))
		Expect(tracer.ended).To(HaveLen(1))
	})

	It("should panic when attaching the same tracer twice", func() {
		domain := &hookableDomain{}
		tracer := &collectingTracer{}

		CollectTrace(domain, tracer)

		Expect(func() {
			CollectTrace(domain, tracer)
		}).To(Panic())
	})
})

type hookableDomain struct {
	hooking.HookableBase
}

func (d *hookableDomain) Name() string {
	return "Domain"
}

type collectingTracer struct {
	started []Task
	stepped []Task
	ended   []Task
}

func (t *collectingTracer) StartTask(task Task) {
	t.started = append(t.started, task)
}

func (t *collectingTracer) StepTask(task Task) {
	t.stepped = append(t.stepped, task)
}

func (t *collectingTracer) EndTask(task Task) {
	t.ended = append(t.ended, task)
}
