package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slowQueryThreshold = 200 * time.Millisecond

type dbTracingKey struct{}

// RegisterDBTracing attaches the otelgorm plugin to a GORM instance so
// every query becomes a child span of the active request trace. Query
// variables are always excluded from span attributes.
func RegisterDBTracing(db *gorm.DB, logger *zap.Logger) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}

	if err := registerSpanEnrichment(db); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Duration("slow_query_threshold", slowQueryThreshold),
	)
	return nil
}

// registerSpanEnrichment adds callbacks that annotate the query span
// with affected rows, the table name and slow query markers.
func registerSpanEnrichment(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = contextWithQueryStart(db)
		}
	}

	if err := db.Callback().Create().Before("gorm:create").Register("span_timing:before_create", before); err != nil {
		return err
	}
	if err := db.Callback().Query().Before("gorm:query").Register("span_timing:before_query", before); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("span_timing:before_update", before); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("span_timing:before_delete", before); err != nil {
		return err
	}
	if err := db.Callback().Raw().Before("gorm:raw").Register("span_timing:before_raw", before); err != nil {
		return err
	}

	if err := db.Callback().Create().After("gorm:create").Register("span_enrich:after_create", enrichSpan); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("span_enrich:after_query", enrichSpan); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("span_enrich:after_update", enrichSpan); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("span_enrich:after_delete", enrichSpan); err != nil {
		return err
	}
	if err := db.Callback().Raw().After("gorm:raw").Register("span_enrich:after_raw", enrichSpan); err != nil {
		return err
	}

	return nil
}

func contextWithQueryStart(db *gorm.DB) context.Context {
	return context.WithValue(db.Statement.Context, dbTracingKey{}, time.Now())
}

// enrichSpan runs after each query and annotates the active span.
func enrichSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(dbTracingKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > slowQueryThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
