package errcode

import "errors"

// Code is a stable, log-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Busy          Code = "busy"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"
	InvalidConfig Code = "invalid_config"

	UnknownPin Code = "unknown_pin"
	Timeout    Code = "timeout"

	// Sensor faults. These never stop the pipeline; the sample is published
	// flagged invalid and carries the code.
	NotReady    Code = "not_ready"
	CRCMismatch Code = "crc_mismatch"
	BusError    Code = "bus_error"

	Error Code = "error" // generic fallback
)

// E wraps a Code with context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap builds an *E. A nil cause is allowed.
func Wrap(c Code, op, msg string, err error) *E {
	return &E{C: c, Op: op, Msg: msg, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return Error
}

// Classifier lets a driver package map its own sentinel errors to a Code
// without errcode importing the driver.
type Classifier func(error) (Code, bool)

var classifiers []Classifier

// RegisterClassifier installs a driver error classifier. Call from init.
func RegisterClassifier(fn Classifier) {
	if fn != nil {
		classifiers = append(classifiers, fn)
	}
}

// MapDriverErr maps low-level driver errors to a Code.
// Registered classifiers are tried in order; unknown errors are bus errors.
func MapDriverErr(err error) Code {
	if err == nil {
		return OK
	}
	if c := Of(err); c != Error {
		return c
	}
	for _, fn := range classifiers {
		if c, ok := fn(err); ok {
			return c
		}
	}
	return BusError
}
