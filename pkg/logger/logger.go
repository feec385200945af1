package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger is the leveled key/value logger used across the platform
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

type stdLogger struct {
	out   *log.Logger
	errs  *log.Logger
	level level
}

// New creates a logger writing to stdout/stderr at the given minimum level
// ("debug", "info", "warn" or "error"; unknown values mean info).
func New(minLevel string) Logger {
	l := levelInfo
	switch strings.ToLower(minLevel) {
	case "debug":
		l = levelDebug
	case "warn":
		l = levelWarn
	case "error":
		l = levelError
	}

	return &stdLogger{
		out:   log.New(os.Stdout, "", log.Ldate|log.Ltime),
		errs:  log.New(os.Stderr, "", log.Ldate|log.Ltime),
		level: l,
	}
}

func (l *stdLogger) Debug(msg string, keyvals ...interface{}) {
	l.write(levelDebug, l.out, "DEBUG", msg, keyvals)
}

func (l *stdLogger) Info(msg string, keyvals ...interface{}) {
	l.write(levelInfo, l.out, "INFO", msg, keyvals)
}

func (l *stdLogger) Warn(msg string, keyvals ...interface{}) {
	l.write(levelWarn, l.out, "WARN", msg, keyvals)
}

func (l *stdLogger) Error(msg string, keyvals ...interface{}) {
	l.write(levelError, l.errs, "ERROR", msg, keyvals)
}

func (l *stdLogger) write(lv level, dst *log.Logger, tag, msg string, keyvals []interface{}) {
	if l.level > lv {
		return
	}
	dst.Println(tag + ": " + format(msg, keyvals))
}

func format(msg string, keyvals []interface{}) string {
	if len(keyvals) == 0 {
		return msg
	}

	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprintf("%v", keyvals[i])
		value := "missing"
		if i+1 < len(keyvals) {
			value = fmt.Sprintf("%v", keyvals[i+1])
		}
		b.WriteString(" " + key + "=" + value)
	}
	return b.String()
}
