package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis abre la conexion go-redis y valida conectividad al arranque.
// Redis respalda las colas de trabajos y el candado de sincronizacion del
// tipo de cambio.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
