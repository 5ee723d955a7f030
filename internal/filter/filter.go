// Package filter is the host-facing side of the password filter: the three
// notification hooks a credential-change pipeline calls. It runs the engine,
// then records metrics, emits the audit record and logs, in that order, so
// nothing after the decision can alter it.
package filter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropDatabas3/pwfilter/internal/audit"
	"github.com/dropDatabas3/pwfilter/internal/metrics"
	"github.com/dropDatabas3/pwfilter/internal/observability/logger"
	"github.com/dropDatabas3/pwfilter/internal/security/password"
	"github.com/dropDatabas3/pwfilter/internal/util"
)

// Validator is satisfied by *password.Engine.
type Validator interface {
	Validate(ctx context.Context, req password.Request) password.Verdict
}

type Filter struct {
	engine       Validator
	sink         audit.Sink
	log          *zap.Logger
	maskAccounts bool
}

type Option func(*Filter)

// WithLogger overrides logger.Named("filter").
func WithLogger(l *zap.Logger) Option { return func(f *Filter) { f.log = l } }

// WithMaskedAccounts masks account names in log lines.
func WithMaskedAccounts(on bool) Option { return func(f *Filter) { f.maskAccounts = on } }

func New(engine Validator, sink audit.Sink, opts ...Option) *Filter {
	f := &Filter{engine: engine, sink: sink}
	for _, o := range opts {
		o(f)
	}
	if f.sink == nil {
		f.sink = audit.Discard
	}
	if f.log == nil {
		f.log = logger.Named("filter")
	}
	return f
}

// InitializeChangeNotify tells the host the filter is ready.
func (f *Filter) InitializeChangeNotify() bool { return true }

// PasswordChangeNotify runs after a change is committed. The filter has
// nothing to do except wipe its copy of the new password.
func (f *Filter) PasswordChangeNotify(account string, rid uint32, newPassword []byte) {
	password.Wipe(newPassword)
}

// PasswordFilter answers whether newPassword may be committed. newPassword
// is zeroed before it returns.
func (f *Filter) PasswordFilter(ctx context.Context, account, fullName string, newPassword []byte, setOperation bool) bool {
	return f.Check(ctx, account, fullName, newPassword, setOperation).Compliant
}

// Check is PasswordFilter returning the whole verdict, for callers that
// report the reason (the CLI). A panic anywhere below becomes a
// non-compliant verdict.
func (f *Filter) Check(ctx context.Context, account, fullName string, newPassword []byte, setOperation bool) (v password.Verdict) {
	start := time.Now()
	shown := account
	if f.maskAccounts {
		shown = util.MaskAccount(account)
	}
	log := f.log.With(logger.ValidationID(uuid.NewString()), logger.Account(shown))
	ctx = logger.ToContext(ctx, log)

	defer func() {
		if r := recover(); r != nil {
			password.Wipe(newPassword)
			log.Error("validation panicked, rejecting", zap.Any("panic", r))
			v = password.Verdict{Reason: password.ReasonInternalError, Phase: password.PhaseVerdict, Err: fmt.Errorf("panic: %v", r)}
			metrics.Observe(v, time.Since(start))
			f.emit(log, account, v)
		}
	}()

	v = f.engine.Validate(ctx, password.Request{
		AccountName:  account,
		FullName:     fullName,
		Password:     newPassword,
		SetOperation: setOperation,
	})
	elapsed := time.Since(start)

	metrics.Observe(v, elapsed)
	f.emit(log, account, v)

	fields := []zap.Field{
		logger.Verdict(v.Compliant),
		logger.Reason(v.Reason.String()),
		logger.Phase(string(v.Phase)),
		logger.Forced(setOperation),
		logger.DurationMs(elapsed.Milliseconds()),
	}
	switch {
	case v.Reason.FailClosed():
		log.Warn("password rejected: filter could not complete", append(fields, logger.Err(v.Err))...)
	case v.Reason.PolicyDecision():
		log.Info("password rejected", fields...)
	default:
		log.Debug("password accepted", fields...)
	}
	return v
}

func (f *Filter) emit(log *zap.Logger, account string, v password.Verdict) {
	rec, ok := audit.FromVerdict(account, v)
	if !ok {
		return
	}
	if err := audit.Emit(f.sink, rec); err != nil {
		metrics.AuditFailuresTotal.Inc()
		log.Warn("audit sink failed", logger.EventID(rec.ID), logger.Err(err))
	}
}
