package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/koalaplan/fondhtn/pkg/observer"
)

// TelemetryObserver implements observer.Observer and records telemetry
// for a driver.Run invocation's events.
type TelemetryObserver struct {
	provider *Provider

	mu        sync.Mutex
	runSpan   trace.Span
	runStart  time.Time
	expSpans  map[int]trace.Span
	expStarts map[int]time.Time
}

// NewTelemetryObserver creates a new telemetry observer.
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{
		provider:  provider,
		expSpans:  make(map[int]trace.Span),
		expStarts: make(map[int]time.Time),
	}
}

// OnEvent handles driver events and records telemetry data.
func (o *TelemetryObserver) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventRunStart:
		o.handleRunStart(ctx, event)
	case observer.EventRunEnd:
		o.handleRunEnd(event)
	case observer.EventExpansionStart:
		o.handleExpansionStart(ctx, event)
	case observer.EventExpansionEnd:
		o.handleExpansionEnd(event)
	case observer.EventNodeCreated:
		o.handleNodeCreated(ctx)
	}
}

func (o *TelemetryObserver) handleRunStart(ctx context.Context, event observer.Event) {
	_, span := o.provider.Tracer().Start(ctx, "driver.run",
		trace.WithAttributes(attribute.String("run.id", event.RunID)),
	)

	o.mu.Lock()
	o.runSpan = span
	o.runStart = event.Timestamp
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleRunEnd(event observer.Event) {
	o.mu.Lock()
	span := o.runSpan
	o.mu.Unlock()

	if span == nil {
		return
	}
	if event.Error != nil {
		span.RecordError(event.Error)
		span.SetStatus(codes.Error, event.Error.Error())
	} else {
		span.SetStatus(codes.Ok, "run completed")
	}
	span.End()
}

func (o *TelemetryObserver) handleExpansionStart(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	parent := o.runSpan
	o.mu.Unlock()

	var spanCtx context.Context
	if parent != nil {
		spanCtx = trace.ContextWithSpan(ctx, parent)
	} else {
		spanCtx = ctx
	}

	_, span := o.provider.Tracer().Start(spanCtx, "driver.expansion",
		trace.WithAttributes(
			attribute.Int("search_node.id", event.SearchNodeID),
			attribute.Int("depth", event.Depth),
		),
	)

	o.provider.SetMaxDepth(event.Depth)
	o.provider.RecordExpansion(ctx, event.SearchNodeID)

	o.mu.Lock()
	o.expSpans[event.SearchNodeID] = span
	o.expStarts[event.SearchNodeID] = event.Timestamp
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleExpansionEnd(event observer.Event) {
	o.mu.Lock()
	span := o.expSpans[event.SearchNodeID]
	start, ok := o.expStarts[event.SearchNodeID]
	delete(o.expSpans, event.SearchNodeID)
	delete(o.expStarts, event.SearchNodeID)
	o.mu.Unlock()

	if ok {
		o.provider.RecordRevisionDuration(context.Background(), time.Since(start))
	}

	if span == nil {
		return
	}
	if event.Error != nil {
		span.RecordError(event.Error)
		span.SetStatus(codes.Error, event.Error.Error())
	} else {
		span.SetStatus(codes.Ok, "expansion completed")
	}
	span.End()
}

func (o *TelemetryObserver) handleNodeCreated(ctx context.Context) {
	o.provider.RecordSearchNodesCreated(ctx, 1)
}
