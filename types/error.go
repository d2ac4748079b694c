package types

import "errors"

// Sentinel errors for the pipeline's error taxonomy. Startup-time errors
// (InvalidTopic, DuplicateName, ArityMismatch, UnknownFunction,
// DuplicateProcessorName, InvalidRuleSignature) are fatal and should abort
// process startup. Per-message errors (CompositionMismatch,
// RoutedContinuation, FunctionInvocation, UnknownRoutedShape) are logged and
// result in the message being dropped; they must never escape the pipeline
// as a fatal failure.
var (
	ErrInvalidTopic           = errors.New("invalid topic rule")
	ErrDuplicateName          = errors.New("function name already registered")
	ErrArityMismatch          = errors.New("function argument count mismatch")
	ErrUnknownFunction        = errors.New("unknown function")
	ErrDuplicateProcessorName = errors.New("processor name already in use")
	ErrInvalidRuleSignature   = errors.New("invalid rule function kind")

	ErrCompositionMismatch    = errors.New("sink composition: source does not match pattern")
	ErrRoutedContinuation     = errors.New("routed message produced before the end of the chain")
	ErrFunctionInvocation     = errors.New("function invocation failed")
	ErrUnknownRoutedShape     = errors.New("unrecognized routed message shape")
	ErrUnboundSinkPlaceholder = errors.New("sink template references an unbound placeholder")
)
