package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - VALIDACIÓN
// =================================================================================

// ValidationID crea un campo para el id de correlación de una validación.
func ValidationID(v string) zap.Field {
	return zap.String("validation_id", v)
}

// Account crea un campo para la cuenta (ya enmascarada si corresponde).
func Account(v string) zap.Field {
	return zap.String("account", v)
}

// Verdict crea un campo "accepted"/"rejected".
func Verdict(compliant bool) zap.Field {
	if compliant {
		return zap.String("verdict", "accepted")
	}
	return zap.String("verdict", "rejected")
}

// Reason crea un campo para el motivo de auditoría.
func Reason(v string) zap.Field {
	return zap.String("reason", v)
}

// Phase crea un campo para la etapa del pipeline.
func Phase(v string) zap.Field {
	return zap.String("phase", v)
}

// Forced marca un cambio forzado por un administrador.
func Forced(v bool) zap.Field {
	return zap.Bool("forced", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - CONFIGURACIÓN Y LISTAS
// =================================================================================

func Scope(v string) zap.Field {
	return zap.String("scope", v)
}

func Key(v string) zap.Field {
	return zap.String("key", v)
}

// Path crea un campo para la ruta de una lista o archivo.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// List crea un campo para el tipo de lista ("dictionary", "blacklist").
func List(v string) zap.Field {
	return zap.String("list", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// EventID crea un campo para el id de un registro de auditoría.
func EventID(v string) zap.Field {
	return zap.String("event_id", v)
}

// Code crea un campo para un código de evento (hex).
func Code(v uint32) zap.Field {
	return zap.String("code", fmt.Sprintf("0x%08X", v))
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// Duration crea un campo para la duración.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Strings crea un campo []string genérico.
func Strings(key string, v []string) zap.Field {
	return zap.Strings(key, v)
}
