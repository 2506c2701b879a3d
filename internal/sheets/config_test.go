package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name: "service account only",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/path/to/key.json"
			},
			wantErr: false,
		},
		{
			name: "partial oauth credentials",
			mutate: func(c *Config) {
				c.ClientID = "test-client"
				c.RefreshToken = "test-token" // secret missing
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "both auth methods",
			mutate: func(c *Config) {
				c.ClientID = "test-client"
				c.ClientSecret = "test-secret"
				c.RefreshToken = "test-token"
				c.ServiceAccountPath = "/path/to/key.json"
			},
			wantErr: true,
			errMsg:  "multiple authentication methods",
		},
		{
			name: "zero retries and delay are valid",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/path/to/key.json"
				c.RetryAttempts = 0
				c.RetryDelay = 0
			},
			wantErr: false,
		},
		{
			name: "negative retry delay",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/path/to/key.json"
				c.RetryDelay = -1 * time.Second
			},
			wantErr: true,
			errMsg:  "retry delay cannot be negative",
		},
		{
			name: "zero batch size",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/path/to/key.json"
				c.BatchSize = 0
			},
			wantErr: true,
			errMsg:  "batch size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
