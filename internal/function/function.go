// Package function models function signatures as explicit data. The graph
// compiler needs to inspect parameter lists, defaults and return types of
// user-declared functions, and to check that one signature can stand in for
// another. Rather than probing with reflection, declarations carry their
// signature as a Func value and compatibility is decided by an explicit
// binder that reports a structured mismatch.
package function

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Callable computes a value from named arguments.
type Callable func(kwargs map[string]cty.Value) (cty.Value, error)

// ParamKind classifies how a parameter may be bound.
type ParamKind int

const (
	// PositionalOrKeyword parameters accept a value by name or position.
	PositionalOrKeyword ParamKind = iota
	// KeywordOnly parameters accept a value by name only.
	KeywordOnly
	// VariadicPositional collects surplus positional values.
	VariadicPositional
	// VariadicKeyword collects surplus named values.
	VariadicKeyword
)

// KeywordFriendly reports whether a parameter of this kind can be addressed
// by name in a keyword-argument set.
func (k ParamKind) KeywordFriendly() bool {
	return k == PositionalOrKeyword || k == KeywordOnly
}

func (k ParamKind) String() string {
	switch k {
	case PositionalOrKeyword:
		return "positional-or-keyword"
	case KeywordOnly:
		return "keyword-only"
	case VariadicPositional:
		return "variadic-positional"
	case VariadicKeyword:
		return "variadic-keyword"
	}
	return fmt.Sprintf("param-kind(%d)", int(k))
}

// Param is a single declared parameter.
type Param struct {
	Name string
	Type cty.Type
	// Default is the value used when the parameter is omitted at call time,
	// or nil when the parameter is required.
	Default *cty.Value
	Kind    ParamKind
}

// HasDefault reports whether the parameter carries a default value.
func (p Param) HasDefault() bool {
	return p.Default != nil
}

// Func is a declared function: its signature plus an optional implementation.
// A Func with a nil Impl is a stub, a pure declaration whose behavior is
// supplied by a decorator at graph-build time.
type Func struct {
	// Name is the declared function name, which becomes the node name.
	Name string
	// Module is the declaring module, recorded as a default node tag.
	Module string
	// Doc is the declaration's documentation string, if any.
	Doc    string
	Params []Param
	Return cty.Type
	Impl   Callable
}

// IsEmpty reports whether the function is a stub with no behavior of its
// own. Documentation does not count as behavior.
func (f *Func) IsEmpty() bool {
	return f.Impl == nil
}

// Param returns the declared parameter with the given name.
func (f *Func) Param(name string) (Param, bool) {
	for _, p := range f.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// FirstParam returns the first declared parameter.
func (f *Func) FirstParam() (Param, bool) {
	if len(f.Params) == 0 {
		return Param{}, false
	}
	return f.Params[0], true
}

// InputTypes maps each keyword-friendly parameter name to its declared type.
// Variadic parameters do not contribute named inputs.
func (f *Func) InputTypes() map[string]cty.Type {
	out := make(map[string]cty.Type, len(f.Params))
	for _, p := range f.Params {
		if p.Kind.KeywordFriendly() {
			out[p.Name] = p.Type
		}
	}
	return out
}

// Defaults returns the default values of all parameters that declare one.
func (f *Func) Defaults() map[string]cty.Value {
	out := make(map[string]cty.Value)
	for _, p := range f.Params {
		if p.HasDefault() {
			out[p.Name] = *p.Default
		}
	}
	return out
}

// Call invokes the implementation with the given named arguments.
func (f *Func) Call(kwargs map[string]cty.Value) (cty.Value, error) {
	if f.Impl == nil {
		return cty.NilVal, fmt.Errorf("function %q has no implementation", f.Name)
	}
	return f.Impl(kwargs)
}

// Signature renders the declared signature for error messages.
func (f *Func) Signature() string {
	parts := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		var b strings.Builder
		switch p.Kind {
		case VariadicPositional:
			b.WriteString("*")
		case VariadicKeyword:
			b.WriteString("**")
		}
		b.WriteString(p.Name)
		if p.Type != cty.NilType {
			b.WriteString(" " + p.Type.FriendlyName())
		}
		if p.HasDefault() {
			b.WriteString(" = ...")
		}
		parts = append(parts, b.String())
	}
	ret := ""
	if f.Return != cty.NilType {
		ret = " " + f.Return.FriendlyName()
	}
	return "(" + strings.Join(parts, ", ") + ")" + ret
}

// BindError describes why a keyword-argument set cannot be bound against a
// signature. At least one of the fields is non-empty; all are sorted.
type BindError struct {
	// Missing lists required parameters that received no value.
	Missing []string
	// Extra lists argument names that match no parameter, in the absence
	// of a variadic-keyword parameter to collect them.
	Extra []string
	// Duplicate lists argument names supplied more than once.
	Duplicate []string
}

func (e *BindError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "extra: "+strings.Join(e.Extra, ", "))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate: "+strings.Join(e.Duplicate, ", "))
	}
	return "cannot bind arguments (" + strings.Join(parts, "; ") + ")"
}

// Bind checks whether a set of argument names can be legally bound against
// the signature: every required keyword-friendly parameter must be covered,
// and every name must match a parameter unless a variadic-keyword parameter
// collects the surplus. Bind validates shape only, never values. A nil
// return means the set binds.
func (f *Func) Bind(names []string) *BindError {
	seen := make(map[string]int, len(names))
	var dup []string
	for _, n := range names {
		seen[n]++
		if seen[n] == 2 {
			dup = append(dup, n)
		}
	}

	collectsSurplus := false
	for _, p := range f.Params {
		if p.Kind == VariadicKeyword {
			collectsSurplus = true
		}
	}

	var missing, extra []string
	for _, p := range f.Params {
		if !p.Kind.KeywordFriendly() {
			continue
		}
		if _, ok := seen[p.Name]; !ok && !p.HasDefault() {
			missing = append(missing, p.Name)
		}
		delete(seen, p.Name)
	}
	if !collectsSurplus {
		for n := range seen {
			extra = append(extra, n)
		}
	}

	if len(missing) == 0 && len(extra) == 0 && len(dup) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)
	sort.Strings(dup)
	return &BindError{Missing: missing, Extra: extra, Duplicate: dup}
}
