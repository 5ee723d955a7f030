package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/pwfilter/internal/security/password"
)

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserve(t *testing.T) {
	before := counterValue(t, ValidationsTotal.WithLabelValues("rejected", "dictionary_match"))
	dictBefore := counterValue(t, EntriesScannedTotal.WithLabelValues("dictionary"))

	Observe(password.Verdict{Reason: password.ReasonDictionaryMatch, Scanned: password.ScanStats{Dictionary: 3}}, 2*time.Millisecond)

	require.Equal(t, before+1, counterValue(t, ValidationsTotal.WithLabelValues("rejected", "dictionary_match")))
	require.Equal(t, dictBefore+3, counterValue(t, EntriesScannedTotal.WithLabelValues("dictionary")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	Observe(password.Verdict{Compliant: true}, time.Millisecond)

	p := filepath.Join(t.TempDir(), "pwfilter.prom")
	require.NoError(t, WriteTextfile(p, reg))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), `pwfilter_validations_total{reason="none",verdict="accepted"}`))
}
