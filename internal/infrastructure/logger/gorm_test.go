package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFn() (string, int64) { return "SELECT 1", 1 }

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		begin   time.Time
		err     error
		wantMsg string
	}{
		{"error is logged", gormlogger.Warn, time.Now(), errors.New("boom"), "SQL Error"},
		{"record not found is ignored", gormlogger.Warn, time.Now(), gormlogger.ErrRecordNotFound, ""},
		{"slow query warns", gormlogger.Warn, time.Now().Add(-time.Second), nil, "Slow SQL"},
		{"fast query at warn is silent", gormlogger.Warn, time.Now(), nil, ""},
		{"fast query at info is debug", gormlogger.Info, time.Now(), nil, "SQL Query"},
		{"silent logs nothing", gormlogger.Silent, time.Now(), errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gl := NewGormLogger(zap.New(core), tt.level, 0)

			gl.Trace(context.Background(), tt.begin, sqlFn, tt.err)

			if tt.wantMsg == "" {
				assert.Zero(t, recorded.Len())
				return
			}
			assert.Equal(t, 1, recorded.FilterMessage(tt.wantMsg).Len())
		})
	}
}

func TestGormLogger_LogMode(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Warn, time.Second)
	switched := gl.LogMode(gormlogger.Info).(*GormLogger)

	assert.Equal(t, gormlogger.Info, switched.level)
	assert.Equal(t, gormlogger.Warn, gl.level)
	assert.Equal(t, time.Second, switched.slowThreshold)
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel(""))
}
