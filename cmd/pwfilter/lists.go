package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/pwfilter/internal/observability/logger"
	"github.com/dropDatabas3/pwfilter/internal/security/password"
	"github.com/dropDatabas3/pwfilter/internal/security/wordlist"
	"github.com/dropDatabas3/pwfilter/internal/settings"
	"github.com/dropDatabas3/pwfilter/internal/util/atomicwrite"
)

func newListsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Operaciones sobre el diccionario y la lista de contraseñas prohibidas",
	}
	cmd.AddCommand(newListsInspectCmd(opts))
	cmd.AddCommand(newListsConvertCmd(opts))
	return cmd
}

func newListsInspectCmd(opts *rootOptions) *cobra.Command {
	var fromSettings bool
	cmd := &cobra.Command{
		Use:   "inspect [FILE...]",
		Short: "Verifica listas como lo haría el filtro (marcador, tamaño, ancho de línea)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			paths := append([]string(nil), args...)
			if fromSettings {
				paths = append(paths, configuredLists(cmd.Context(), a.settings, a.engine().Scope())...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no lists given (pass FILE... or --from-settings)")
			}

			reports := inspectAll(cmd.Context(), paths, a.listOptions())
			failed := printReports(cmd.OutOrStdout(), reports)
			if failed > 0 {
				return fmt.Errorf("%d list(s) would be rejected by the filter", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromSettings, "from-settings", false, "Incluye las rutas configuradas en el backend de settings")
	return cmd
}

// configuredLists returns the dictionary and blacklist paths that are set.
func configuredLists(ctx context.Context, p settings.Provider, scope string) []string {
	var out []string
	for _, key := range []string{password.KeyWordsDictionaryFile, password.KeyPasswordsListFile} {
		if v, ok := p.GetString(ctx, scope, key); ok && v != "" {
			out = append(out, v)
		} else {
			logger.L().Warn("list path not configured", logger.Scope(scope), logger.Key(key))
		}
	}
	return out
}

// inspectAll scans every list concurrently; the order of reports follows paths.
func inspectAll(ctx context.Context, paths []string, opts wordlist.Options) []wordlist.Report {
	reports := make([]wordlist.Report, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			start := time.Now()
			reports[i] = wordlist.Inspect(p, opts)
			logger.L().Debug("list inspected", logger.Path(p), logger.Count(reports[i].Entries), logger.Duration(time.Since(start)))
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

func printReports(w io.Writer, reports []wordlist.Report) (failed int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tSTATUS\tSIZE\tENTRIES\tBLANK\tLONGEST\tBLAKE2B-256")
	for _, r := range reports {
		status := "ok"
		if !r.OK() {
			status = "rejected"
			failed++
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n", r.Path, status, r.Size, r.Entries, r.Blank, r.Longest, r.Fingerprint)
	}
	_ = tw.Flush()
	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(w, "%s: %v\n", r.Path, r.Err)
		}
	}
	return failed
}

func newListsConvertCmd(opts *rootOptions) *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convierte texto UTF-8 (una entrada por línea) al formato de lista (UTF-16LE con marcador)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out es requerido")
			}
			cfg, err := loadConfig(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if in != "" && in != "-" {
				f, err := os.Open(in)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			data, n, err := wordlist.Encode(r, cfg.Wordlist.MaxFileBytes)
			if err != nil {
				return err
			}
			if err := atomicwrite.WriteFile(out, data, atomicwrite.Options{Perm: 0o644, Retries: 5, Backoff: 200 * time.Millisecond}); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries (%d bytes) to %s\n", n, len(data), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "Archivo de entrada UTF-8 (\"-\" = stdin)")
	cmd.Flags().StringVar(&out, "out", "", "Archivo de salida")
	return cmd
}
