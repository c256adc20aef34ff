package database

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm/logger"
)

// gormLogger adapts hclog to GORM's logger interface.
type gormLogger struct {
	log hclog.Logger

	// slowThreshold marks queries worth a warning.
	slowThreshold time.Duration
}

// NewGormLogger returns a GORM logger writing through hclog.
func NewGormLogger(log hclog.Logger) logger.Interface {
	return &gormLogger{
		log:           log,
		slowThreshold: 200 * time.Millisecond,
	}
}

func (l *gormLogger) LogMode(logger.LogLevel) logger.Interface { return l }

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.log.Info(msg, "args", args)
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.log.Warn(msg, "args", args)
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.log.Error(msg, "args", args)
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil:
		l.log.Debug("query failed", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case elapsed > l.slowThreshold:
		l.log.Warn("slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	default:
		l.log.Trace("query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
