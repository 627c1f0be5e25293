package dblog

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func sql() (string, int64) { return "SELECT 1", 1 }

func TestTraceCountsEveryStatement(t *testing.T) {
	l := New(zerolog.Nop(), 0)
	ctx := context.Background()

	l.Trace(ctx, time.Now(), sql, nil)
	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(ctx, time.Now(), sql, nil)

	assert.EqualValues(t, 3, l.Statements())
	l.Reset()
	assert.Zero(t, l.Statements())
}

func TestTraceLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf), 0)
	ctx := context.Background()

	l.Trace(ctx, time.Now(), sql, nil)
	assert.Empty(t, buf.String(), "warn level hides plain statements")

	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is not an error")

	l.Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), `"component":"gorm"`)

	buf.Reset()
	l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), sql, nil)
	assert.Contains(t, buf.String(), "SELECT 1")
}

func TestTraceSlow(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf), time.Millisecond)
	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "slow query")
}
