// Command pwfilter checks candidate passwords against the forbidden-word
// dictionary and the forbidden-password list, and manages those lists.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(int(exit))
		}
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		configPath: envOr("PWFILTER_CONFIG", ""),
		envFile:    envOr("PWFILTER_ENV_FILE", ".env"),
	}

	root := &cobra.Command{
		Use:           "pwfilter",
		Short:         "Filtro de contraseñas: diccionario de palabras prohibidas + lista de contraseñas prohibidas",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "Ruta al YAML de configuración (env PWFILTER_CONFIG); vacío = solo env")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", opts.envFile, "Archivo .env a cargar si existe (env PWFILTER_ENV_FILE)")
	root.PersistentFlags().BoolVar(&opts.printConfig, "print-config", false, "Imprime la configuración efectiva (secretos ocultos) y sale")

	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newListsCmd(opts))
	root.AddCommand(newSettingsCmd(opts))
	return root
}

// exitError ends the process with the given status and no message.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
