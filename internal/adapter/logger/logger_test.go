package logger_test

import (
	"testing"

	"github.com/MikeRez0/tgshop/internal/adapter/config"
	"github.com/MikeRez0/tgshop/internal/adapter/logger"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		conf    config.App
		wantErr bool
	}{
		{name: "develop", conf: config.App{LogLevel: "debug", Mode: config.AppModeDevelop}},
		{name: "production", conf: config.App{LogLevel: "error", Mode: config.AppModeProduction}},
		{name: "bad level", conf: config.App{LogLevel: "loud", Mode: config.AppModeProduction}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, err := logger.NewLogger(&test.conf)
			if test.wantErr {
				assert.Error(t, err)
				assert.Nil(t, l)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}
