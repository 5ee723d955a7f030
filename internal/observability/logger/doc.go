// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context Scoping: cada validación lleva su propio logger con validation_id
//     y account, sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Output: siempre stderr salvo que se configure otra salida; stdout queda
//     libre para el resultado del CLI.
//   - Nunca se loguea material de contraseña: no existe un campo para eso.
//
// # Usage
//
//	logger.Init(logger.Config{
//	    Env:   cfg.Log.Env,   // "dev" o "prod"
//	    Level: cfg.Log.Level, // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
//	log := logger.From(ctx)
//	log.Info("password rejected", logger.Reason(v.Reason.String()))
package logger
