// Package cache implementa la caché versionada de reportes sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKey = "wms:reports:version"

// Cache guarda lecturas serializadas en JSON bajo claves con la versión vigente.
// Invalidate incrementa la versión: las claves anteriores quedan huérfanas y expiran por TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New construye la caché. client nil la desactiva (todas las lecturas van al loader).
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version devuelve la versión actual, inicializándola si no existe.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX: si otro proceso la creó primero se respeta su valor.
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey compone la clave con la versión vigente.
func (c *Cache) BuildKey(ctx context.Context, key string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("wms:%s:v%d", key, ver), nil
}

// FetchJSON carga dest desde la caché o lo llena con loader y lo guarda.
// Si Redis falla, la lectura se sirve igual desde loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if c == nil || c.client == nil {
		return load(ctx, dest, loader)
	}
	fullKey, err := c.BuildKey(ctx, key)
	if err != nil {
		return load(ctx, dest, loader)
	}
	payload, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return load(ctx, dest, loader)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	// Un fallo al escribir no invalida la lectura.
	_ = c.client.Set(ctx, fullKey, raw, c.ttl).Err()
	return json.Unmarshal(raw, dest)
}

// Invalidate deja obsoletas todas las entradas incrementando la versión.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}

func load(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
