package modifiers

import "fmt"

// ErrorKind is the sub-reason of an InvalidDecoratorError.
type ErrorKind int

const (
	// KindNotEmpty: a stub carries a real implementation that the
	// decorator would silently discard.
	KindNotEmpty ErrorKind = iota
	// KindIncompatibleSignature: the remapped stub arguments cannot be
	// bound against the delegate's signature.
	KindIncompatibleSignature
	// KindNonKeywordParameter: a stub declares a parameter that cannot be
	// addressed by keyword.
	KindNonKeywordParameter
	// KindMissingConfigKey: the configuration snapshot lacks a key the
	// decorator requires.
	KindMissingConfigKey
	// KindInvalidReturnType: a stub's declared return type is not the
	// recognized series type.
	KindInvalidReturnType
	// KindUnexpectedParameters: a stub declares parameters where none are
	// allowed.
	KindUnexpectedParameters
	// KindInvalidChainTarget: a chain target's first parameter is not a
	// recognized dependency.
	KindInvalidChainTarget
	// KindUnimplemented: a declared but unimplemented option was requested.
	KindUnimplemented
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotEmpty:
		return "stub-not-empty"
	case KindIncompatibleSignature:
		return "incompatible-signature"
	case KindNonKeywordParameter:
		return "non-keyword-friendly-parameter"
	case KindMissingConfigKey:
		return "missing-required-configuration-key"
	case KindInvalidReturnType:
		return "wrong-declared-return-type"
	case KindUnexpectedParameters:
		return "unexpected-parameters-present"
	case KindInvalidChainTarget:
		return "first-parameter-not-a-recognized-dependency"
	case KindUnimplemented:
		return "unimplemented-feature-requested"
	}
	return fmt.Sprintf("error-kind(%d)", int(k))
}

// InvalidDecoratorError reports a declaration-time mistake in how a
// decorator was applied. These errors abort the graph build immediately;
// nothing retries them.
type InvalidDecoratorError struct {
	// Kind is the structured sub-reason.
	Kind ErrorKind
	// Fn names the declared function the decorator was applied to.
	Fn string
	// Detail carries enough context to render a precise message.
	Detail string
}

func (e *InvalidDecoratorError) Error() string {
	return fmt.Sprintf("invalid decorator on %q (%s): %s", e.Fn, e.Kind, e.Detail)
}

func decoratorErr(kind ErrorKind, fn string, format string, args ...any) *InvalidDecoratorError {
	return &InvalidDecoratorError{Kind: kind, Fn: fn, Detail: fmt.Sprintf(format, args...)}
}
