package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/HoaiNhu/RCM-System/internal/config"

	"github.com/redis/go-redis/v9"
)

// Cache envuelve el cliente Redis. Un Cache nil (o sin cliente) es válido:
// todas las operaciones se vuelven no-ops y el motor funciona igual sin cache.
type Cache struct {
	client *redis.Client
}

// New intenta conectar a Redis. Si falla, devuelve un Cache deshabilitado
// en vez de tumbar el proceso: el cache es opcional.
func New(cfg *config.Config) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] Redis no disponible (%v), siguiendo sin cache", err)
		return &Cache{}
	}

	log.Println("[cache] Redis OK.")
	return &Cache{client: client}
}

// Disabled devuelve un cache apagado (útil en tests y en el trainer offline).
func Disabled() *Cache {
	return &Cache{}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON lee una key, si existe deserializa el JSON en `dest`.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		// no existe la clave
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serializa `value` a JSON y lo guarda con TTL en segundos.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttlSeconds int) error {
	if !c.Enabled() {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	return c.client.Set(ctx, key, b, ttl).Err()
}
