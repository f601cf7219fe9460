package logtypes

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/LerianStudio/lib-logtypes/logtypes/internal/nilcheck"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

var (
	// ErrInvalidConfig indicates a configuration shape failed validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidRetentionRule indicates a retention rule failed validation.
	ErrInvalidRetentionRule = errors.New("invalid retention rule")
)

// Named is implemented by errors that report their own kind name.
// Without it, the kind is the dynamic type as printed by %T.
type Named interface {
	ErrorName() string
}

// StackTracer is implemented by errors that captured a call stack,
// such as those created by github.com/pkg/errors.
type StackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// ErrorRecord is the flat, JSON-safe form of an error.
// Stack is nil when no trace was captured and encodes as null.
type ErrorRecord struct {
	Name    string  `json:"name"`
	Message string  `json:"message"`
	Stack   *string `json:"stack"`
}

// NewErrorRecord builds the record for err. It never panics, even when the
// error's methods do.
func NewErrorRecord(err error) ErrorRecord {
	if nilcheck.IsNil(err) {
		return ErrorRecord{Name: fmt.Sprintf("%T", err), Message: fmt.Sprint(err)}
	}

	return ErrorRecord{
		Name:    errorName(err),
		Message: errorMessage(err),
		Stack:   errorStack(err),
	}
}

// Map returns the record as a JSONValue mapping with all three keys present.
func (r ErrorRecord) Map() map[string]any {
	var stack any
	if r.Stack != nil {
		stack = *r.Stack
	}

	return map[string]any{
		"name":    r.Name,
		"message": r.Message,
		"stack":   stack,
	}
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (r ErrorRecord) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", r.Name)
	enc.AddString("message", r.Message)

	if r.Stack != nil {
		enc.AddString("stack", *r.Stack)
		return nil
	}

	return enc.AddReflected("stack", nil)
}

// NormalizeError converts any recovered or received value into a JSONValue.
//
// Genuine errors become a {"name", "message", "stack"} mapping. Everything
// else, including structs that merely carry a Message field, becomes its
// default fmt representation.
//
// A nil input, and a typed nil error, yields the Go string "<nil>" rather
// than a JSON null. Consumers that expect null for an absent error must check
// for nil before calling NormalizeError.
func NormalizeError(v any) JSONValue {
	if err, ok := v.(error); ok && !nilcheck.IsNil(err) {
		return NewErrorRecord(err).Map()
	}

	return stringify(v)
}

func errorName(err error) string {
	if named, ok := err.(Named); ok {
		if name, ok := callString(named.ErrorName); ok && name != "" {
			return name
		}
	}

	return fmt.Sprintf("%T", err)
}

func errorMessage(err error) string {
	if msg, ok := callString(err.Error); ok {
		return msg
	}

	// fmt reports the panic in place of the message.
	return fmt.Sprint(err)
}

func errorStack(err error) (stack *string) {
	defer func() {
		if recover() != nil {
			stack = nil
		}
	}()

	var tracer StackTracer
	if !pkgerrors.As(err, &tracer) || nilcheck.IsNil(tracer) {
		return nil
	}

	frames := tracer.StackTrace()
	if len(frames) == 0 {
		return nil
	}

	rendered := strings.TrimPrefix(fmt.Sprintf("%+v", frames), "\n")

	return &rendered
}

func callString(fn func() string) (s string, ok bool) {
	defer func() {
		if recover() != nil {
			s, ok = "", false
		}
	}()

	return fn(), true
}

// stringify is fmt.Sprint guarded against self-referencing maps and slices,
// which fmt would recurse into until the stack overflows.
func stringify(v any) string {
	d := cycleDetector{path: map[visitKey]struct{}{}}
	if d.visit(reflect.ValueOf(v), 0) {
		return fmt.Sprintf("<cyclic %T>", v)
	}

	return fmt.Sprint(v)
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// cycleDetector follows values the way fmt prints them: pointers are only
// dereferenced at the top level and values with formatting methods are not
// descended into.
type cycleDetector struct {
	path map[visitKey]struct{}
}

func (d *cycleDetector) visit(v reflect.Value, depth int) bool {
	if !v.IsValid() {
		return false
	}

	if v.CanInterface() && formatsItself(v) {
		return false
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return false
		}

		return d.visit(v.Elem(), depth+1)
	case reflect.Pointer:
		if depth != 0 || v.IsNil() {
			return false
		}

		switch v.Elem().Kind() {
		case reflect.Array, reflect.Slice, reflect.Struct, reflect.Map:
			return d.visit(v.Elem(), depth+1)
		default:
			return false
		}
	case reflect.Map:
		if v.IsNil() {
			return false
		}

		return d.enter(v, func() bool {
			iter := v.MapRange()
			for iter.Next() {
				if d.visit(iter.Key(), depth+1) || d.visit(iter.Value(), depth+1) {
					return true
				}
			}

			return false
		})
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return false
		}

		return d.enter(v, func() bool { return d.visitElems(v, depth) })
	case reflect.Array:
		return d.visitElems(v, depth)
	case reflect.Struct:
		for i := range v.NumField() {
			if d.visit(v.Field(i), depth+1) {
				return true
			}
		}
	}

	return false
}

func (d *cycleDetector) visitElems(v reflect.Value, depth int) bool {
	for i := range v.Len() {
		if d.visit(v.Index(i), depth+1) {
			return true
		}
	}

	return false
}

func (d *cycleDetector) enter(v reflect.Value, walk func() bool) bool {
	key := visitKey{ptr: v.Pointer(), typ: v.Type()}
	if _, onPath := d.path[key]; onPath {
		return true
	}

	d.path[key] = struct{}{}
	defer delete(d.path, key)

	return walk()
}

func formatsItself(v reflect.Value) bool {
	switch v.Interface().(type) {
	case fmt.Formatter, error, fmt.Stringer:
		return true
	default:
		return false
	}
}
