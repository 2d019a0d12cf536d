package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContract = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))
	return configFile
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 15
  allowed_origins:
    - https://app.openmint.xyz
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
auth:
  jwt_secret: "super-secret"
  token_ttl: "24h"
ethereum:
  rpc_url: "http://localhost:8545"
  contract_address: "` + testContract + `"
  chain_id: 11155111
pinata:
  api_key: "key"
  secret_key: "secret"
upload:
  max_file_size: 1048576
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 15, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"https://app.openmint.xyz"}, cfg.Server.AllowedOrigins)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "super-secret", cfg.Auth.JWTSecret)
				assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
				assert.Equal(t, testContract, cfg.Ethereum.ContractAddress)
				assert.Equal(t, uint64(11155111), cfg.Ethereum.ChainID)
				assert.Equal(t, int64(1048576), cfg.Upload.MaxFileSize)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
auth:
  jwt_secret: "super-secret"
ethereum:
  contract_address: "` + testContract + `"
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				// Check defaults
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
				assert.Equal(t, "http://localhost:8545", cfg.Ethereum.RPCURL)
				assert.Equal(t, uint64(1), cfg.Ethereum.ChainID)
				assert.Equal(t, "https://api.pinata.cloud", cfg.Pinata.APIURL)
				assert.Equal(t, "https://gateway.pinata.cloud", cfg.Pinata.GatewayURL)
				assert.Equal(t, 2*time.Minute, cfg.Pinata.Timeout)
				assert.Equal(t, int64(50*1024*1024), cfg.Upload.MaxFileSize)
			},
		},
		{
			name: "missing jwt secret",
			configFile: `
database:
  host: localhost
ethereum:
  contract_address: "` + testContract + `"
`,
			expectError: true,
		},
		{
			name: "missing contract address",
			configFile: `
auth:
  jwt_secret: "super-secret"
`,
			expectError: true,
		},
		{
			name: "invalid yaml",
			configFile: `
database:
  port: not-a-number
auth:
  jwt_secret: "super-secret"
ethereum:
  contract_address: "` + testContract + `"
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := writeConfigFile(t, tt.configFile)

			cfg, err := LoadAPIConfig(configFile, t.TempDir())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestLoadAPIConfigFromEnv(t *testing.T) {
	t.Setenv("OPENMINT_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("OPENMINT_ETHEREUM_CONTRACT_ADDRESS", testContract)
	t.Setenv("OPENMINT_DATABASE_HOST", "db.internal")
	t.Setenv("OPENMINT_SERVER_PORT", "9999")

	// No config file on disk: everything comes from the environment
	cfg, err := LoadAPIConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, testContract, cfg.Ethereum.ContractAddress)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "openmint",
		Password: "secret",
		DBName:   "openmint",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=localhost port=5432 user=openmint password=secret dbname=openmint sslmode=disable", cfg.DSN())
}
