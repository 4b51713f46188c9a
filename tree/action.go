package tree

import (
	"reflect"

	"github.com/ava12/rdp"
)

// Error codes used by tree:
const (
	// ActionTypeError indicates that an action is not a function or returns values of unsupported shape.
	ActionTypeError = rdp.TreeErrors + iota

	// ActionArityError indicates that an action cannot accept the number of arguments passed.
	ActionArityError

	// ActionArgumentError indicates that an argument cannot be assigned to action parameter.
	ActionArgumentError
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Action is an evaluation function attached to a token or a node.
// Any function is accepted as long as its results are one of: none, (T), (error), (T, error).
type Action struct {
	name     string
	fn       reflect.Value
	typ      reflect.Type
	hasValue bool
	hasError bool
}

// NewAction wraps fn. Returns nil, nil if fn is nil.
// name is used in error messages only.
func NewAction(name string, fn any) (*Action, error) {
	if fn == nil {
		return nil, nil
	}

	if a, is := fn.(*Action); is {
		return a, nil
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, rdp.FormatError(ActionTypeError, "action for %s is %s, not a function", name, t)
	}
	if v.IsNil() {
		return nil, nil
	}

	a := &Action{name: name, fn: v, typ: t}
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errorType {
			a.hasError = true
		} else {
			a.hasValue = true
		}
	case 2:
		if t.Out(1) != errorType {
			return nil, rdp.FormatError(ActionTypeError, "second result of action for %s must be error, got %s", name, t.Out(1))
		}
		a.hasValue = true
		a.hasError = true
	default:
		return nil, rdp.FormatError(ActionTypeError, "action for %s returns %d values", name, t.NumOut())
	}

	return a, nil
}

// Name returns the name of element the action is attached to.
func (a *Action) Name() string {
	return a.name
}

// Arity returns the number of declared parameters and whether the action is variadic.
func (a *Action) Arity() (int, bool) {
	return a.typ.NumIn(), a.typ.IsVariadic()
}

// Call invokes the action with given arguments.
func (a *Action) Call(args []any) (any, error) {
	n := a.typ.NumIn()
	variadic := a.typ.IsVariadic()
	if (variadic && len(args) < n-1) || (!variadic && len(args) != n) {
		return nil, rdp.FormatError(ActionArityError, "action for %s takes %d arguments, got %d", a.name, n, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if variadic && i >= n-1 {
			pt = a.typ.In(n - 1).Elem()
		} else {
			pt = a.typ.In(i)
		}

		v, valid := argValue(arg, pt)
		if !valid {
			return nil, rdp.FormatError(ActionArgumentError, "action for %s: cannot use %T as argument %d of type %s", a.name, arg, i+1, pt)
		}
		in[i] = v
	}

	out := a.fn.Call(in)
	var (
		res any
		e   error
	)
	if a.hasValue {
		res = out[0].Interface()
	}
	if a.hasError {
		ev := out[len(out)-1]
		if !ev.IsNil() {
			e = ev.Interface().(error)
		}
	}
	return res, e
}

func argValue(arg any, pt reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), true
		default:
			return reflect.Value{}, false
		}
	}

	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(pt) {
		return reflect.Value{}, false
	}
	return v, true
}
