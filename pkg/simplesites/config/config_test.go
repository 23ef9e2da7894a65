package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-sites/pkg/simplesites/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		options     []config.Option
		expectError bool
	}{
		{
			name:        "defaults without secret should fail",
			options:     []config.Option{},
			expectError: true,
		},
		{
			name: "secret without base domain should fail",
			options: []config.Option{
				config.WithSharedSecret("secret"),
			},
			expectError: true,
		},
		{
			name: "secret and base domain should succeed",
			options: []config.Option{
				config.WithSharedSecret("secret"),
				config.WithBaseDomain("example.com"),
			},
			expectError: false,
		},
		{
			name: "s3 storage without bucket should fail",
			options: []config.Option{
				config.WithSharedSecret("secret"),
				config.WithBaseDomain("example.com"),
				config.WithS3Storage(config.S3Config{}),
			},
			expectError: true,
		},
		{
			name: "negative max archive size should fail",
			options: []config.Option{
				config.WithSharedSecret("secret"),
				config.WithBaseDomain("example.com"),
				config.WithMaxArchiveMB(-1),
			},
			expectError: true,
		},
		{
			name: "zero concurrency should fail",
			options: []config.Option{
				config.WithSharedSecret("secret"),
				config.WithBaseDomain("example.com"),
				config.WithConcurrency(0),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, cfg)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(
		config.WithSharedSecret("secret"),
		config.WithBaseDomain("example.com"),
	)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, 100, cfg.MaxArchiveMB)
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := config.Load(
		config.WithSharedSecret("secret"),
		config.WithBaseDomain("example.com"),
		config.WithMemoryStorage(),
	)
	require.NoError(t, err)

	svc, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
