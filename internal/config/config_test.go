package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Port)
	assert.NotEmpty(t, cfg.DBHost)
	assert.NotEmpty(t, cfg.RedisURL)
	assert.NotEmpty(t, cfg.Env)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing port",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "development with default password",
			cfg:  Config{Port: "8470", Env: "development", DBPassword: "password"},
		},
		{
			name:    "production with default password",
			cfg:     Config{Port: "8470", Env: "production", DBPassword: "password"},
			wantErr: true,
		},
		{
			name:    "production with empty password",
			cfg:     Config{Port: "8470", Env: "prod"},
			wantErr: true,
		},
		{
			name: "production with strong password",
			cfg:  Config{Port: "8470", Env: "production", DBPassword: "s3cure-and-long"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
