package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-backoffice/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "test", cfg.App.Env)
	assert.Equal(t, 1440, cfg.JWT.Expiration)
	assert.Equal(t, time.Minute, cfg.Redis.StatsTTL)
	assert.False(t, cfg.Storage.Enabled())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PROMETHEUS_ENABLED", "true")
	t.Setenv("STATS_CACHE_TTL", "30")
	t.Setenv("UPLOAD_URL_EXPIRY", "15m")
	t.Setenv("EINVOICE_WAREHOUSES", "Guasá=San Pablo, CHOCOLATE = San Pablo")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.StatsTTL)
	assert.Equal(t, 15*time.Minute, cfg.Storage.URLExpiry)
	assert.Equal(t, map[string]string{"Guasá": "San Pablo", "CHOCOLATE": "San Pablo"}, cfg.EInvoice.Warehouses)
}

func TestDSN_EscapaContrasena(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss/1", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%2F1@db:5432/pos?sslmode=disable", c.DSN())
}
