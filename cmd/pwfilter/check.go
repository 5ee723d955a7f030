package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/pwfilter/internal/filter"
	"github.com/dropDatabas3/pwfilter/internal/security/password"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var (
		account    string
		fullName   string
		forced     bool
		showReason bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Valida una contraseña leída de stdin (exit 0 = aceptada, 1 = rechazada)",
		Long: `Lee la contraseña candidata de stdin (una línea; se descarta el salto final)
y aplica el filtro igual que el hook del host: diccionario, lista prohibida,
auditoría y métricas. Imprime "password accepted" o "password rejected".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if account == "" {
				return fmt.Errorf("--account es requerido")
			}
			a, err := openApp(cmd.Context(), opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			sink, err := a.auditSink()
			if err != nil {
				return err
			}

			pw, err := readCandidate(cmd.InOrStdin(), a.cfg.Password.MaxBytes)
			if err != nil {
				return err
			}
			eng := a.engine()
			f := filter.New(eng, sink, filter.WithMaskedAccounts(a.cfg.Audit.MaskAccounts))
			v := f.Check(cmd.Context(), account, fullName, pw, forced)
			a.writeMetrics()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, v.UserMessage())
			if showReason {
				fmt.Fprintf(out, "reason=%s phase=%s scope=%s\n", v.Reason, v.Phase, eng.Scope())
			}
			if !v.Compliant {
				return exitError(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "Cuenta (ej. CORP\\jdoe)")
	cmd.Flags().StringVar(&fullName, "full-name", "", "Nombre completo de la cuenta (opcional)")
	cmd.Flags().BoolVar(&forced, "set-operation", false, "Cambio forzado por un administrador (se acepta sin revisar)")
	cmd.Flags().BoolVar(&showReason, "show-reason", false, "Imprime el motivo de auditoría (solo operadores)")
	return cmd
}

// readCandidate reads at most limit+3 bytes and keeps only the first line,
// without its CRLF or LF. A line with no terminator inside that window is
// handed over whole so the engine rejects it as too long.
func readCandidate(r io.Reader, limit int) ([]byte, error) {
	buf := make([]byte, limit+3)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		password.Wipe(buf)
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	b := buf[:n]
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = bytes.TrimSuffix(b[:i], []byte{'\r'})
	}
	// Lo que quedó fuera del slice también se borra.
	password.Wipe(buf[len(b):])
	return b, nil
}
