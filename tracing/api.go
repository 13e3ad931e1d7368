package tracing

import (
	"github.com/sarchlab/memsim/hooking"
)

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	Name() string
	hooking.Hookable
	InvokeHook(hooking.HookCtx)
}

// A list of hook poses for the hooks to apply to
var (
	HookPosTaskStart = &hooking.HookPos{Name: "HookPosTaskStart"}
	HookPosTaskStep  = &hooking.HookPos{Name: "HookPosTaskStep"}
	HookPosTaskEnd   = &hooking.HookPos{Name: "HookPosTaskEnd"}
)

// StartTask notifies the hooks that hook to the domain about the start of an
// operation.
func StartTask(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
) {
	if domain.NumHooks() == 0 {
		return
	}

	allRequiredFieldsMustBeNotEmpty(id, domain, kind, what)
	domainMustHaveName(domain)

	task := Task{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Where:    domain.Name(),
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Item:   task,
		Pos:    HookPosTaskStart,
	}
	domain.InvokeHook(ctx)
}

// StepTask marks that a milestone has been reached while performing an
// operation.
func StepTask(
	id string,
	domain NamedHookable,
	kind string,
	what string,
) {
	if domain.NumHooks() == 0 {
		return
	}

	task := Task{
		ID: id,
		Steps: []TaskStep{
			{Kind: kind, What: what},
		},
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Item:   task,
		Pos:    HookPosTaskStep,
	}
	domain.InvokeHook(ctx)
}

// EndTask notifies the hooks about the end of an operation.
func EndTask(
	id string,
	domain NamedHookable,
) {
	if domain.NumHooks() == 0 {
		return
	}

	task := Task{
		ID: id,
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Item:   task,
		Pos:    HookPosTaskEnd,
	}
	domain.InvokeHook(ctx)
}

func allRequiredFieldsMustBeNotEmpty(
	id string,
	domain NamedHookable,
	kind string,
	what string,
) {
	if id == "" {
		panic("id must not be empty")
	}

	if domain == nil {
		panic("domain must not be nil")
	}

	if kind == "" {
		panic("kind must not be empty")
	}

	if what == "" {
		panic("what must not be empty")
	}
}

func domainMustHaveName(domain NamedHookable) {
	if domain.Name() == "" {
		panic("domain must have a name")
	}
}
