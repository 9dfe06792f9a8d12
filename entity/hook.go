package entity

import "context"

type HookAction int

const (
	HookActionInvalid HookAction = iota // default, not to be used
	HookActionProceed                   // continue processing of this record
	HookActionSkip                      // skip this record and take the next
	HookActionAbort                     // abort the whole batch run
)

// PreTransformHookFunc is a client-provided function called for each record
// before it is sent through the transform pipeline. This way the client can
// modify/enrich records before they are processed, or filter out records that
// should not be transformed at all. The record is provided as a mutable
// argument. Errors inside the hook are part of the client domain; the hook
// signals the outcome it wants with the returned HookAction.
type PreTransformHookFunc func(ctx context.Context, record *Record) HookAction

// PostTransformHookFunc serves the same purpose and functionality as the
// PreTransformHookFunc but is called with the transformed record, before it is
// written to the batch output.
type PostTransformHookFunc func(ctx context.Context, record *Record) HookAction
