package config_test

import (
	"testing"
	"time"

	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/stretchr/testify/assert"
)

func validConfig() *config.Config {
	return &config.Config{
		App:       &config.App{LogLevel: "error", Mode: config.AppModeProduction},
		HTTP:      &config.HTTP{HostString: "localhost:8080"},
		Database:  &config.Database{},
		Payment:   &config.Payment{WebhookSecret: "secret", SigningKey: "key", Currency: "RUB"},
		Catalog:   &config.Catalog{Path: "products.json", Timeout: time.Second},
		Pickup:    &config.Pickup{},
		Notifier:  &config.Notifier{},
		Audit:     &config.Audit{MaxEntries: 1000},
		Kafka:     &config.Kafka{},
		RateLimit: &config.RateLimit{Window: time.Minute, Max: 5},
		Admin:     &config.Admin{},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *config.Config)
		wantErr bool
	}{
		{name: "valid", modify: func(c *config.Config) {}},
		{name: "no webhook secret", modify: func(c *config.Config) { c.Payment.WebhookSecret = "" }, wantErr: true},
		{name: "no signing key", modify: func(c *config.Config) { c.Payment.SigningKey = "" }, wantErr: true},
		{name: "pickup without credentials", modify: func(c *config.Config) { c.Pickup.Enabled = true }, wantErr: true},
		{name: "pickup with credentials", modify: func(c *config.Config) {
			c.Pickup = &config.Pickup{Enabled: true, ClientID: "id", ClientSecret: "secret"}
		}},
		{name: "zero audit capacity", modify: func(c *config.Config) { c.Audit.MaxEntries = 0 }, wantErr: true},
		{name: "zero rate limit", modify: func(c *config.Config) { c.RateLimit.Max = 0 }, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := validConfig()
			test.modify(c)
			err := c.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
