package filter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/pwfilter/internal/audit"
	"github.com/dropDatabas3/pwfilter/internal/security/password"
	"github.com/dropDatabas3/pwfilter/internal/settings"
)

type recordingSink struct {
	mu   sync.Mutex
	recs []audit.Record
}

func (s *recordingSink) Record(rec audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func writeList(t *testing.T, entries ...string) string {
	t.Helper()
	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xFE})
	for _, e := range entries {
		for _, u := range utf16.Encode([]rune(e + "\r\n")) {
			b.WriteByte(byte(u))
			b.WriteByte(byte(u >> 8))
		}
	}
	p := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(p, b.Bytes(), 0o600))
	return p
}

func newFilter(t *testing.T, sink audit.Sink, opts ...Option) (*Filter, *settings.Map, *observer.ObservedLogs) {
	t.Helper()
	m := settings.NewMap(map[string]map[string]string{
		password.DefaultScope: {
			password.KeyWordsDictionaryFile:     writeList(t, "dragon"),
			password.KeyPasswordsListFile:       writeList(t, "letmein"),
			password.KeyWordsDictionaryDisabled: "0",
			password.KeyPasswordsListDisabled:   "0",
		},
	})
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append([]Option{WithLogger(zap.New(core))}, opts...)
	return New(password.NewEngine(m, password.Options{}), sink, opts...), m, logs
}

func TestHooks(t *testing.T) {
	f, _, _ := newFilter(t, nil)
	assert.True(t, f.InitializeChangeNotify())

	pw := []byte("committed")
	f.PasswordChangeNotify("CORP\\jdoe", 1104, pw)
	assert.Equal(t, make([]byte, len(pw)), pw)
}

func TestPasswordFilter(t *testing.T) {
	sink := &recordingSink{}
	f, _, logs := newFilter(t, sink)
	ctx := context.Background()

	pw := []byte("Tr0ub4dor&3")
	assert.True(t, f.PasswordFilter(ctx, "CORP\\jdoe", "John Doe", pw, false))
	assert.Equal(t, make([]byte, len(pw)), pw)
	assert.Empty(t, sink.recs, "accepted passwords are not audited")

	assert.False(t, f.PasswordFilter(ctx, "CORP\\jdoe", "John Doe", []byte("MyDrAgOn99"), false))
	require.Len(t, sink.recs, 1)
	assert.Equal(t, audit.CodeNotCompliant, sink.recs[0].Code)
	assert.Equal(t, []string{"CORP\\jdoe", audit.MsgDictionaryMatch}, sink.recs[0].Inserts)

	assert.True(t, f.PasswordFilter(ctx, "CORP\\admin", "", []byte("letmein"), true))
	require.Len(t, sink.recs, 2)
	assert.Equal(t, audit.CodePasswordForced, sink.recs[1].Code)

	for _, e := range logs.All() {
		for _, v := range e.ContextMap() {
			s, _ := v.(string)
			assert.NotContains(t, s, "MyDrAgOn99")
			assert.NotContains(t, s, "dragon")
		}
		assert.NotContains(t, e.Message, "dragon")
	}
	rejected := logs.FilterMessage("password rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.InfoLevel, rejected[0].Level)
	assert.Equal(t, "dictionary_match", rejected[0].ContextMap()["reason"])
	accepted := logs.FilterMessage("password accepted").All()
	require.Len(t, accepted, 2)
	assert.Equal(t, zapcore.DebugLevel, accepted[0].Level)
	assert.NotEmpty(t, rejected[0].ContextMap()["validation_id"])
}

func TestPasswordFilter_FailClosedIsAudited(t *testing.T) {
	sink := &recordingSink{}
	f, m, logs := newFilter(t, sink, WithMaskedAccounts(true))
	m.Set(password.DefaultScope, password.KeyPasswordsListFile, filepath.Join(t.TempDir(), "gone.txt"))

	assert.False(t, f.PasswordFilter(context.Background(), "CORP\\jdoe", "", []byte("Tr0ub4dor&3"), false))
	require.Len(t, sink.recs, 1)
	assert.Equal(t, audit.CodeOpenFile, sink.recs[0].Code)

	warn := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warn, 1)
	assert.Equal(t, "CORP\\j…e", warn[0].ContextMap()["account"])
	assert.Equal(t, "resource_unavailable", warn[0].ContextMap()["reason"])
}

type panicValidator struct{}

func (panicValidator) Validate(context.Context, password.Request) password.Verdict {
	panic("settings backend exploded")
}

type panicSink struct{}

func (panicSink) Record(audit.Record) error { panic("sink exploded") }

func TestCheck_RecoversPanics(t *testing.T) {
	sink := &recordingSink{}
	core, logs := observer.New(zapcore.DebugLevel)
	f := New(panicValidator{}, sink, WithLogger(zap.New(core)))

	pw := []byte("Tr0ub4dor&3")
	v := f.Check(context.Background(), "jdoe", "", pw, false)
	assert.False(t, v.Compliant)
	assert.Equal(t, password.ReasonInternalError, v.Reason)
	assert.Equal(t, make([]byte, len(pw)), pw)
	require.Len(t, sink.recs, 1)
	assert.Equal(t, audit.CodeRuntimeError, sink.recs[0].Code)
	assert.Equal(t, 1, logs.FilterMessage("validation panicked, rejecting").Len())
}

func TestCheck_SinkPanicDoesNotChangeVerdict(t *testing.T) {
	f, _, logs := newFilter(t, panicSink{})
	assert.False(t, f.PasswordFilter(context.Background(), "jdoe", "", []byte("letmein!"), false))
	assert.True(t, f.PasswordFilter(context.Background(), "jdoe", "", []byte("Tr0ub4dor&3"), false))
	assert.Equal(t, 1, logs.FilterMessage("audit sink failed").Len())
}
