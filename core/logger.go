package core

// Logger is any leveled logger that can ship messages to an error tracker.
// Extra args may carry an error, a context map or an identity string.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
