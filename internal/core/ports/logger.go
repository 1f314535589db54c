package ports

type LoggerPort interface {
	Debug(msg string)
	Info(msg string)
	Error(msg string, err error)
	Warning(msg string)
	Close()
}

// DebugLogPort exposes the recent log lines shown in the debug overlay.
type DebugLogPort interface {
	Entries() []string
	Clear()
}
