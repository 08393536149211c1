package core

// Logger is the app-wide logging interface. args may carry wrapped errors,
// maps of extra context or a user.User to attach to the entry.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
