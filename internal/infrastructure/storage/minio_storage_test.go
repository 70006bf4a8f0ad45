package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/infrastructure/storage"
	"github.com/jhoicas/pos-backoffice/pkg/config"
)

func TestFinalURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"sin prefijo publico", config.StorageConfig{Endpoint: "minio:9000", Bucket: "fotos"}, "http://minio:9000/fotos/c1/a.png"},
		{"con ssl", config.StorageConfig{Endpoint: "s3.local", Bucket: "fotos", UseSSL: true}, "https://s3.local/fotos/c1/a.png"},
		{"prefijo publico", config.StorageConfig{Endpoint: "minio:9000", Bucket: "fotos", PublicURL: "https://cdn.guasa.co/"}, "https://cdn.guasa.co/c1/a.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, storage.FinalURL(tc.cfg, "c1/a.png"))
		})
	}
}

func TestNewMinioStorage_EndpointInvalido(t *testing.T) {
	_, err := storage.NewMinioStorage(config.StorageConfig{Endpoint: "http://minio:9000"})
	require.Error(t, err)
}

func TestNewMinioStorage_SinConexion(t *testing.T) {
	s, err := storage.NewMinioStorage(config.StorageConfig{Endpoint: "localhost:9000", Bucket: "fotos"})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
