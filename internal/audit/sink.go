package audit

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dropDatabas3/pwfilter/internal/observability/logger"
	"github.com/dropDatabas3/pwfilter/internal/util"
)

// Sink receives records. Errors are reported to the caller of Emit only for
// logging; they never change a verdict.
type Sink interface {
	Record(rec Record) error
}

// Emit hands rec to s and swallows panics.
func Emit(s Sink, rec Record) (err error) {
	if s == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audit: sink panic: %v", r)
		}
	}()
	return s.Record(rec)
}

// Discard drops every record.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Record) error { return nil }

// Multi fans out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Record(rec Record) error {
	var errs []error
	for _, s := range m {
		if err := Emit(s, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes records through zap: errors at Error level, the rest at Info.
type LogSink struct {
	Logger *zap.Logger

	// MaskAccounts replaces account inserts with util.MaskAccount output.
	MaskAccounts bool
}

func (s LogSink) Record(rec Record) error {
	l := s.Logger
	if l == nil {
		l = logger.Named("audit")
	}
	if s.MaskAccounts {
		rec = maskAccount(rec)
	}
	fields := []zap.Field{
		logger.EventID(rec.ID),
		logger.Code(uint32(rec.Code)),
		logger.String("category", rec.Category.String()),
		logger.Reason(rec.Reason),
	}
	switch rec.Severity {
	case SeverityError:
		l.Error(rec.Message(), fields...)
	case SeverityWarning:
		l.Warn(rec.Message(), fields...)
	default:
		l.Info(rec.Message(), fields...)
	}
	return nil
}

// maskAccount returns a copy of rec with the account insert (%1 of the
// account-bearing codes) masked.
func maskAccount(rec Record) Record {
	if rec.Code != CodeNotCompliant && rec.Code != CodePasswordForced {
		return rec
	}
	if len(rec.Inserts) == 0 {
		return rec
	}
	ins := append([]string(nil), rec.Inserts...)
	ins[0] = util.MaskAccount(ins[0])
	rec.Inserts = ins
	return rec
}
