// ABOUTME: Debug logger that writes structured zap logs to a file
// ABOUTME: Keeps the terminal clean for CLI output and the TUI while capturing errors

package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file name inside the config directory
const FileName = "debug.log"

var (
	mu      sync.Mutex
	logger  = zap.NewNop()
	logFile *os.File
)

// Options controls where debug output goes
type Options struct {
	// ConfigDir holds debug.log. Empty disables the file sink.
	ConfigDir string
	// Stderr mirrors log output to stderr (the --debug flag)
	Stderr bool
}

// Init builds the process logger. With no sinks configured the logger is a no-op.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	var cores []zapcore.Core
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if opts.ConfigDir != "" {
		if err := os.MkdirAll(opts.ConfigDir, 0700); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(opts.ConfigDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		logFile = f
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(f),
			zapcore.DebugLevel,
		))
	}

	if opts.Stderr {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			zapcore.DebugLevel,
		))
	}

	if len(cores) == 0 {
		logger = zap.NewNop()
		return nil
	}

	logger = zap.New(zapcore.NewTee(cores...))
	return nil
}

// L returns the process logger
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Close flushes and closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	_ = logger.Sync()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = zap.NewNop()
}

// Log writes a formatted debug message
func Log(format string, args ...interface{}) {
	L().Debug(fmt.Sprintf(format, args...))
}

// Error logs an error with context
func Error(context string, err error) {
	if err == nil {
		return
	}
	L().Error(context, zap.Error(err))
}

// Warn logs a formatted warning message
func Warn(format string, args ...interface{}) {
	L().Warn(fmt.Sprintf(format, args...))
}
