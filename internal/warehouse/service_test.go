package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewService(t *testing.T) {
	config := Config{
		Account:   "test123.us-east-1",
		Username:  "etl_user",
		Password:  "secret",
		Role:      "SYSADMIN",
		Warehouse: "TEST_WH",
		Database:  "DWH",
		Timeout:   30 * time.Second,
	}

	service := NewService(config)

	assert.NotNil(t, service)
	assert.Equal(t, config, service.config)
	assert.False(t, service.connected)
	assert.NotNil(t, service.circuitBreaker)
}

func TestValidateConfig(t *testing.T) {
	valid := Config{
		Account:   "test123.us-east-1",
		Username:  "etl_user",
		Password:  "secret",
		Warehouse: "TEST_WH",
		Database:  "DWH",
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"missing account", func(c *Config) { c.Account = "" }, "account is required"},
		{"missing username", func(c *Config) { c.Username = "" }, "username is required"},
		{"missing password", func(c *Config) { c.Password = "" }, "password is required"},
		{"missing warehouse", func(c *Config) { c.Warehouse = "" }, "warehouse is required"},
		{"missing database", func(c *Config) { c.Database = "" }, "database is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)

			err := ValidateConfig(config)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.errorMsg)
			}
		})
	}
}

func TestCloseWithoutConnectIsNoop(t *testing.T) {
	service := NewService(Config{})
	assert.NoError(t, service.Close())
}
