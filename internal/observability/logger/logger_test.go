package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, parseLevel(" DEBUG "))
	require.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	require.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	require.Equal(t, zapcore.InfoLevel, parseLevel(""))
	require.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	From(context.Background()).Info("singleton")
	scoped := L().With(ValidationID("v-1"), Account("j…e"))
	ctx := ToContext(context.Background(), scoped)
	From(ctx).Warn("scoped", Reason("dictionary_match"), Code(0x40020104), Err(errors.New("x")))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, "singleton", entries[0].Message)
	fields := entries[1].ContextMap()
	require.Equal(t, "v-1", fields["validation_id"])
	require.Equal(t, "dictionary_match", fields["reason"])
	require.Equal(t, "0x40020104", fields["code"])
	require.Equal(t, "x", fields["error"])
}

func TestVerdictField(t *testing.T) {
	require.Equal(t, "accepted", Verdict(true).String)
	require.Equal(t, "rejected", Verdict(false).String)
}
