package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingHook struct {
	ctxs []HookCtx
}

func (h *recordingHook) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("HookableBase", func() {
	var (
		domain *HookableBase
		hook   *recordingHook
	)

	BeforeEach(func() {
		domain = &HookableBase{}
		hook = &recordingHook{}
	})

	It("should accept hooks", func() {
		domain.AcceptHook(hook)

		Expect(domain.NumHooks()).To(Equal(1))
		Expect(domain.Hooks()).To(HaveLen(1))
	})

	It("should panic on duplicated hooks", func() {
		domain.AcceptHook(hook)

		Expect(func() {
			domain.AcceptHook(hook)
		}).To(Panic())
	})

	It("should invoke hooks in order", func() {
		hook2 := &recordingHook{}
		domain.AcceptHook(hook)
		domain.AcceptHook(hook2)

		pos := &HookPos{Name: "SomePos"}
		ctx := HookCtx{
			Pos:  pos,
			Item: "item",
		}
		domain.InvokeHook(ctx)

		Expect(hook.ctxs).To(HaveLen(1))
		Expect(hook2.ctxs).To(HaveLen(1))
		Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(pos))
		Expect(hook.ctxs[0].Item).To(Equal("item"))
	})
})
