// Package service contains the business logic for the reading log API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/pkordes/readinglog/internal/service"

// Clock returns the current instant, already converted to the reference
// time zone. Every "today" computation in this package goes through one.
type Clock func() time.Time

// SystemClock reads the wall clock and converts it to loc.
// A nil loc means time.Local.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock always returns t. Useful in tests and for replaying a day.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func orSystem(c Clock) Clock {
	if c == nil {
		return SystemClock(nil)
	}
	return c
}

var tracer = otel.Tracer(instrumentationName)

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span (if any) and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// counters are created against the global MeterProvider, which forwards to
// whatever provider main installs later.
type counters struct {
	pagesLogged    metric.Int64Counter
	booksCompleted metric.Int64Counter
}

func newCounters() counters {
	m := otel.Meter(instrumentationName)
	pages, err := m.Int64Counter("readinglog.pages_logged",
		metric.WithDescription("Pages recorded through reading log entries"),
		metric.WithUnit("{page}"))
	if err != nil {
		otel.Handle(err)
	}
	books, err := m.Int64Counter("readinglog.books_completed",
		metric.WithDescription("Books transitioned into the completed status"),
		metric.WithUnit("{book}"))
	if err != nil {
		otel.Handle(err)
	}
	return counters{pagesLogged: pages, booksCompleted: books}
}

func (c counters) addPages(ctx context.Context, n int) {
	if c.pagesLogged != nil {
		c.pagesLogged.Add(ctx, int64(n))
	}
}

func (c counters) addCompleted(ctx context.Context) {
	if c.booksCompleted != nil {
		c.booksCompleted.Add(ctx, 1)
	}
}
