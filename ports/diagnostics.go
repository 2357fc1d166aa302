package ports

// Diagnostics is the sink every pipeline component logs through. It is
// injected rather than process-global so the core stays testable without
// capturing process output.
type Diagnostics interface {
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// NopDiagnostics discards everything; the zero value is ready to use.
type NopDiagnostics struct{}

func (NopDiagnostics) Error(format string, args ...interface{}) {}
func (NopDiagnostics) Warn(format string, args ...interface{})  {}
func (NopDiagnostics) Info(format string, args ...interface{})  {}
func (NopDiagnostics) Debug(format string, args ...interface{}) {}
