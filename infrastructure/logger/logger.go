package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const defaultRingSize = 200

type Logger interface {
	Debug(msg string)
	Info(msg string)
	Error(msg string, err error)
	Warning(msg string)
	Close()

	Entries() []string
	Clear()
	SetDebug(enabled bool)
	DebugEnabled() bool
}

type LogData struct {
	File      string `json:"file"`
	Function  string `json:"function"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Err       string `json:"err,omitempty"`
	Timestamp string `json:"timestamp"`
}

type fileLogger struct {
	mu        sync.Mutex
	logFile   *os.File
	encoder   *json.Encoder
	logDir    string
	logPrefix string

	debug    bool
	ring     []string
	ringSize int
	now      func() time.Time
}

func NewFileLogger(logDir, logPrefix string, debug bool) (Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory '%s': %w", logDir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFileName := fmt.Sprintf("%s_%s.json", logPrefix, timestamp)

	logFilePath := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file '%s': %w", logFilePath, err)
	}

	return &fileLogger{
		logFile:   file,
		encoder:   json.NewEncoder(file),
		logDir:    logDir,
		logPrefix: logPrefix,
		debug:     debug,
		ringSize:  defaultRingSize,
		now:       time.Now,
	}, nil
}

func (l *fileLogger) writeLogInternal(level string, msg string, errIn error, skip int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level == "DEBUG" && !l.debug {
		return
	}

	now := l.now()
	l.remember(now, level, msg, errIn)

	if l.logFile == nil {
		fmt.Fprintf(os.Stderr, "logger is closed, dropping log: %s\n", msg)
		return
	}

	pc, filePath, _, ok := runtime.Caller(skip)

	var funcName string
	var shortFileName string

	if ok {
		shortFileName = filepath.Base(filePath)
		fn := runtime.FuncForPC(pc)
		if fn != nil {
			parts := strings.Split(fn.Name(), ".")
			funcName = parts[len(parts)-1]
		} else {
			funcName = "???"
		}
	} else {
		shortFileName = "???"
		funcName = "???"
	}

	logEntry := LogData{
		Timestamp: now.Format(time.RFC3339),
		File:      shortFileName,
		Function:  funcName,
		Level:     level,
		Message:   msg,
	}

	if errIn != nil {
		logEntry.Err = errIn.Error()
	}

	if err := l.encoder.Encode(logEntry); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
	}
}

// remember keeps the overlay ring; only filled while debug mode is on.
func (l *fileLogger) remember(now time.Time, level, msg string, errIn error) {
	if !l.debug {
		return
	}

	marker := "🔵"
	if level == "ERROR" {
		marker = "🔴"
	} else if level == "WARNING" {
		marker = "🟡"
	}

	line := fmt.Sprintf("[%s] %s %s", now.Format("15:04:05"), marker, msg)
	if errIn != nil {
		line += ": " + errIn.Error()
	}

	l.ring = append(l.ring, line)
	if len(l.ring) > l.ringSize {
		l.ring = l.ring[len(l.ring)-l.ringSize:]
	}
}

func (l *fileLogger) Debug(msg string) {
	l.writeLogInternal("DEBUG", msg, nil, 2)
}

func (l *fileLogger) Info(msg string) {
	l.writeLogInternal("INFO", msg, nil, 2)
}

func (l *fileLogger) Error(msg string, err error) {
	l.writeLogInternal("ERROR", msg, err, 2)
}

func (l *fileLogger) Warning(msg string) {
	l.writeLogInternal("WARNING", msg, nil, 2)
}

func (l *fileLogger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.ring...)
}

func (l *fileLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ring = nil
}

func (l *fileLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.debug = enabled
}

func (l *fileLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.debug
}

func (l *fileLogger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		err := l.logFile.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error closing log file: %v\n", err)
		}
		l.logFile = nil
	}
}
