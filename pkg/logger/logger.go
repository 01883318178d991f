package logger

// Sink is a logging backend. Implementations receive a message plus
// alternating key/value pairs.
type Sink interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

var sinks []Sink

// Init configures the package-level logger with one or more backends. Call
// it once at startup, before anything logs; logging without Init is a
// no-op.
func Init(backends ...Sink) {
	sinks = backends
}

func emit(fn func(Sink)) {
	for _, s := range sinks {
		fn(s)
	}
}

// Log writes a message at the backend's default level.
func Log(message string, keyvals ...any) {
	emit(func(s Sink) { s.Log(message, keyvals...) })
}

// Debug writes a message at DEBUG level.
func Debug(message string, keyvals ...any) {
	emit(func(s Sink) { s.Debug(message, keyvals...) })
}

// Info writes a message at INFO level.
func Info(message string, keyvals ...any) {
	emit(func(s Sink) { s.Info(message, keyvals...) })
}

// Warn writes a message at WARN level.
func Warn(message string, keyvals ...any) {
	emit(func(s Sink) { s.Warn(message, keyvals...) })
}

// Error writes a message at ERROR level.
func Error(message string, keyvals ...any) {
	emit(func(s Sink) { s.Error(message, keyvals...) })
}

// Fatal writes a message at FATAL level; backends are expected to
// terminate the program.
func Fatal(message string, keyvals ...any) {
	emit(func(s Sink) { s.Fatal(message, keyvals...) })
}
