package logger

import (
	"sync"
	"time"

	"golang-scheduler/pkg/common"

	"go.uber.org/zap/zapcore"
)

// AlertSink receives log entries that were flagged for alerting.
// Implementations must not block; delivery is best-effort.
type AlertSink interface {
	Alert(level, message string, fields map[string]interface{}, at time.Time)
}

type AlertCore struct {
	core     zapcore.Core
	minLevel zapcore.Level

	mu   sync.RWMutex
	sink AlertSink
}

func NewAlertCore(minLevel zapcore.Level) *AlertCore {
	return &AlertCore{minLevel: minLevel}
}

// Wrap chains the alert core on top of the regular zap core.
func (a *AlertCore) Wrap(core zapcore.Core) zapcore.Core {
	a.core = core
	return a
}

func (a *AlertCore) SetSink(sink AlertSink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sink = sink
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	return &AlertCore{
		core:     a.core.With(fields),
		minLevel: a.minLevel,
		sink:     a.currentSink(),
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	shouldSend := false
	for _, f := range fields {
		if f.Key == common.KEY_LOG_HOOK_SEND_ALERT && f.Type == zapcore.BoolType && f.Integer == 1 {
			shouldSend = true
			break
		}
	}

	if entry.Level >= a.minLevel && shouldSend {
		if sink := a.currentSink(); sink != nil {
			enc := zapcore.NewMapObjectEncoder()
			for _, f := range fields {
				if f.Key == common.KEY_LOG_HOOK_SEND_ALERT {
					continue
				}
				f.AddTo(enc)
			}
			go sink.Alert(entry.Level.CapitalString(), entry.Message, enc.Fields, entry.Time) // async biar tidak blocking
		}
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

func (a *AlertCore) currentSink() AlertSink {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sink
}
