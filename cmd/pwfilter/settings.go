package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/pwfilter/internal/security/password"
	"github.com/dropDatabas3/pwfilter/internal/settings"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Lectura y esquema del backend de settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Muestra los cuatro settings del filtro tal como los ve el motor",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "backend\t%s\n", a.cfg.Settings.Backend)
			for _, row := range describeSettings(cmd.Context(), a.settings, a.engine().Scope()) {
				fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
			}
			return tw.Flush()
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Crea la tabla de settings en PostgreSQL (settings.postgres.dsn)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if cfg.Settings.Postgres.DSN == "" {
				return fmt.Errorf("settings.postgres.dsn (o POSTGRES_DSN) es requerido")
			}
			pool, err := settings.ConnectPG(cmd.Context(), cfg.Settings.Postgres.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			res, err := settings.Migrate(cmd.Context(), pool)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied=%v skipped=%v in %s\n", res.Applied, res.Skipped, res.Duration)
			return nil
		},
	}

	cmd.AddCommand(show, migrate)
	return cmd
}

// describeSettings renders scope/key → value, "<unset>" or the read error,
// without caching anything.
func describeSettings(ctx context.Context, p settings.Provider, scope string) [][2]string {
	rows := [][2]string{{"scope", scope}}
	for _, key := range []string{password.KeyWordsDictionaryFile, password.KeyPasswordsListFile} {
		v, ok := p.GetString(ctx, scope, key)
		if !ok {
			v = "<unset>"
		}
		rows = append(rows, [2]string{key, v})
	}
	for _, key := range []string{password.KeyWordsDictionaryDisabled, password.KeyPasswordsListDisabled} {
		b, err := p.GetBool(ctx, scope, key)
		v := fmt.Sprintf("%t", b)
		if err != nil {
			v = "unreadable (" + err.Error() + ")"
		}
		rows = append(rows, [2]string{key, v})
	}
	return rows
}
