// Package debuglog provides structured JSONL logging for smartnav.
// Writes to {stateDir}/smartnav.log at configurable debug levels.
package debuglog

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created inside the state directory
const FileName = "smartnav.log"

// Logger writes structured log entries to the debug log file.
// A Logger for debug level 0, or one whose file could not be opened, drops
// everything.
type Logger struct {
	zl   *zap.Logger
	file *os.File
}

// New creates a Logger. Level 1 records info events, level 2 adds debug
// events such as phase timings.
func New(stateDir string, debugLevel int) *Logger {
	if debugLevel < 1 {
		return Nop()
	}

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return Nop()
	}
	f, err := os.OpenFile(filepath.Join(stateDir, FileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return Nop()
	}

	level := zapcore.InfoLevel
	if debugLevel >= 2 {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "event"
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level)
	zl := zap.New(core).With(zap.String("invocation", uuid.NewString()))

	return &Logger{zl: zl, file: f}
}

// Nop returns a Logger that discards everything
func Nop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

// LogVisit logs a recorded directory visit.
func (l *Logger) LogVisit(path string, elapsedMs int64) {
	l.zl.Info("visit_recorded",
		zap.String("path", path),
		zap.Int64("elapsed_ms", elapsedMs))
}

// LogVisitSkipped logs an "add" that matched an exclude pattern.
func (l *Logger) LogVisitSkipped(path, pattern string) {
	l.zl.Info("visit_skipped",
		zap.String("path", path),
		zap.String("pattern", pattern))
}

// LogJump logs a best-match lookup and its outcome.
func (l *Logger) LogJump(query, currentDir, match string, found bool, elapsedMs int64) {
	l.zl.Info("jump_resolved",
		zap.String("query", query),
		zap.String("cwd", currentDir),
		zap.String("match", match),
		zap.Bool("found", found),
		zap.Int64("elapsed_ms", elapsedMs))
}

// LogError logs a command failure.
func (l *Logger) LogError(command string, err error) {
	l.zl.Warn("command_failed",
		zap.String("command", command),
		zap.Error(err))
}

// LogPhases logs per-phase durations for a command (debug level 2).
func (l *Logger) LogPhases(command string, totalMs int64, phases map[string]int64) {
	l.zl.Debug("command_timing",
		zap.String("command", command),
		zap.Int64("total_ms", totalMs),
		zap.Any("phases", phases))
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	_ = l.zl.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
