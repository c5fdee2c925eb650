package core

// Logger is any leveled logger.
// args may carry errors, maps of extra data and the acting session.Identity.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Notifier surfaces short user-facing messages (toasts).
type Notifier interface {
	Success(title string)
	Warning(title string)
	Error(title string)
}

// Storage is a small persistent key/value store local to the user's machine.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
