package logger_test

import (
	"testing"

	"github.com/eternalApril/respdump/internal/logger"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		encoding string
		debug    bool
	}{
		{"Debug console", "debug", "console", true},
		{"Warn json", "warn", "json", false},
		{"Unknown level falls back to info", "loud", "json", false},
		{"Unknown encoding falls back to console", "debug", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logger.New(tt.level, tt.encoding)
			assert.NotNil(t, log)
			assert.Equal(t, tt.debug, log.Core().Enabled(zap.DebugLevel))
		})
	}
}

func TestNew_UnknownLevelIsInfo(t *testing.T) {
	log := logger.New("loud", "json")
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}
