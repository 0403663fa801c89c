package logx

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var (
	mu       sync.Mutex
	level    = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	buf      = make([]string, 0, 500)
	maxLines = 500
	// default to no stderr output to avoid breaking the TUI; enable via PROSPECT_LOG_STDERR=1
	toStderr = false
	logger   *zap.Logger
)

// ringWriter feeds encoded zap entries into the in-memory line buffer.
type ringWriter struct{}

func (ringWriter) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if len(buf) >= maxLines {
			// drop oldest
			copy(buf[0:], buf[1:])
			buf = buf[:len(buf)-1]
		}
		buf = append(buf, line)
	}
	return len(p), nil
}

func (ringWriter) Sync() error { return nil }

func build() *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeCaller = nil
	enc := zapcore.NewConsoleEncoder(encCfg)
	var ws zapcore.WriteSyncer = ringWriter{}
	if toStderr {
		ws = zapcore.NewMultiWriteSyncer(ws, zapcore.Lock(os.Stderr))
	}
	return zap.New(zapcore.NewCore(enc, ws, level))
}

// L returns the process logger. Entries land in the ring buffer shown by the
// application-log view, and on stderr when enabled.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = build()
	}
	return logger
}

func SetLevel(l Level) {
	switch l {
	case Debug:
		level.SetLevel(zapcore.DebugLevel)
	case Info:
		level.SetLevel(zapcore.InfoLevel)
	case Warn:
		level.SetLevel(zapcore.WarnLevel)
	case Error:
		level.SetLevel(zapcore.ErrorLevel)
	}
}

func SetLevelFromEnv() {
	lv := strings.ToLower(strings.TrimSpace(os.Getenv("PROSPECT_LOG_LEVEL")))
	switch lv {
	case "debug":
		SetLevel(Debug)
	case "info":
		SetLevel(Info)
	case "warn", "warning":
		SetLevel(Warn)
	case "error":
		SetLevel(Error)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("PROSPECT_LOG_STDERR"))); v != "" {
		mu.Lock()
		toStderr = v != "0" && v != "false" && v != "no"
		logger = nil
		mu.Unlock()
	}
}

func Debugf(format string, a ...any) { L().Sugar().Debugf(format, a...) }
func Infof(format string, a ...any)  { L().Sugar().Infof(format, a...) }
func Warnf(format string, a ...any)  { L().Sugar().Warnf(format, a...) }
func Errorf(format string, a ...any) { L().Sugar().Errorf(format, a...) }

func Dump() string {
	mu.Lock()
	defer mu.Unlock()
	return strings.Join(buf, "\n")
}

func Lines() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(buf))
	copy(out, buf)
	return out
}

// Reset clears the buffer. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	buf = buf[:0]
}
