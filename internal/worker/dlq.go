package worker

// dlq.go — cola de trabajos muertos
// Un trabajo que agota sus reintentos (la solicitud de factura que no pudo
// generar su PDF, la sincronizacion de tipo de cambio que siguio fallando)
// termina en una lista Redis "dlq:{cola_origen}" para revision manual.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry conserva el trabajo fallido junto con el contexto necesario
// para reencolarlo a mano.
type DLQEntry struct {
	ColaOrigen string          `json:"cola_origen"`
	Tipo       string          `json:"tipo"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	FalloEn    string          `json:"fallo_en"` // RFC 3339
	Intentos   int             `json:"intentos"`
}

// SendToDLQ aparta un trabajo agotado. Nunca regresa error: si el apartado
// mismo falla solo queda el log, el trabajo original ya se perdio.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		ColaOrigen: queue,
		Tipo:       jobType,
		Payload:    payload,
		Motivo:     reason,
		FalloEn:    time.Now().UTC().Format(time.RFC3339),
		Intentos:   attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("cola", queue).Msg("dlq: no se pudo serializar la entrada")
		return
	}

	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("cola", DLQPrefix+queue).Msg("dlq: no se pudo apartar el trabajo")
		return
	}

	log.Warn().
		Str("cola", queue).
		Str("tipo", jobType).
		Str("motivo", reason).
		Int("intentos", attempts).
		Msg("dlq: trabajo apartado tras agotar reintentos")
}

// DLQLength reporta cuantos trabajos apartados acumula una cola.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
