package portfolio

import "context"

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// DocumentChanged does nothing
func (n *NoopEventSink) DocumentChanged(ctx context.Context, change Change) {}
