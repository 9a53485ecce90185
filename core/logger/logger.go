package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorGray   = "\033[90m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var levelColors = map[LogLevel]string{
	DEBUG: ColorGray,
	INFO:  ColorBlue,
	WARN:  ColorYellow,
	ERROR: ColorRed,
	FATAL: ColorPurple,
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// sink is a single destination. Colors are stripped for plain sinks such as log files.
type sink struct {
	w     io.Writer
	color bool
}

type ColoredLogger struct {
	mu       sync.RWMutex
	verbose  bool
	exitFunc func(int)
	sinks    map[LogLevel][]sink
}

var globalLogger = newColoredLogger()

func newColoredLogger() *ColoredLogger {
	cl := &ColoredLogger{
		exitFunc: os.Exit,
		sinks:    make(map[LogLevel][]sink),
	}
	for level := DEBUG; level <= FATAL; level++ {
		cl.sinks[level] = []sink{{w: os.Stdout, color: true}}
	}
	return cl
}

func SetVerbose(verbose bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.verbose = verbose
}

// SetWriterForAll replaces every destination with writer. Used by tests to capture output.
func SetWriterForAll(writer io.Writer, color bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.sinks[level] = []sink{{w: writer, color: color}}
	}
}

// AddWriterForAll adds writer next to the existing destinations.
func AddWriterForAll(writer io.Writer, color bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.sinks[level] = append(globalLogger.sinks[level], sink{w: writer, color: color})
	}
}

// SetErrorWriter routes ERROR and FATAL to stderr.
func SetErrorWriter() {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for _, level := range []LogLevel{ERROR, FATAL} {
		globalLogger.sinks[level] = []sink{{w: os.Stderr, color: true}}
	}
}

// OpenLogFile appends plain (uncolored) log lines to path. The caller closes the file.
func OpenLogFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	AddWriterForAll(f, false)
	return f, nil
}

func formatMessage(level LogLevel, message string, color bool) string {
	timestamp := time.Now().Format("06-01-02 15:04:05")
	if !color {
		return fmt.Sprintf("[%s] %-5s %s", timestamp, level.String(), message)
	}
	return fmt.Sprintf(
		"%s[%s]%s %s%-5s%s %s%s",
		ColorGray, timestamp, ColorReset,
		levelColors[level], level.String(), ColorReset,
		message, ColorReset,
	)
}

func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	cl.mu.RLock()
	if level == DEBUG && !cl.verbose {
		cl.mu.RUnlock()
		return
	}
	sinks := cl.sinks[level]
	exit := cl.exitFunc
	cl.mu.RUnlock()

	message := fmt.Sprintf(format, args...)
	for _, s := range sinks {
		log.New(s.w, "", 0).Println(formatMessage(level, message, s.color))
	}

	if level == FATAL {
		exit(1)
	}
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Success(format string, args ...interface{}) {
	globalLogger.log(INFO, "✔ "+format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, format, args...)
}
