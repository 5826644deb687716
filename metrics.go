package dictscot

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	messageEventType = "message"
	commandEventType = "command"
	unknownEventType = "unknown"
)

// instrumenter holds the instruments of the event processing
type instrumenter struct {
	appName string

	eventsSeen              metric.Int64Counter
	eventsProcessed         metric.Int64Counter
	answersSent             metric.Int64Counter
	handlerErrors           metric.Int64Counter
	processingLatencyMillis metric.Int64Histogram
	dispatchLatencyMillis   metric.Int64Histogram
}

// newInstrumenter creates a new core instrumenter
func newInstrumenter(appName string, meter metric.Meter) (ins *instrumenter, err error) {
	ins = new(instrumenter)
	ins.appName = appName

	if ins.eventsSeen, err = meter.Int64Counter("eventsSeen", metric.WithDescription("Events received from the gateway")); err != nil {
		return nil, err
	}

	if ins.eventsProcessed, err = meter.Int64Counter("eventsProcessed", metric.WithDescription("Events processed by partition workers")); err != nil {
		return nil, err
	}

	if ins.answersSent, err = meter.Int64Counter("answersSent", metric.WithDescription("Answers delivered through the gateway")); err != nil {
		return nil, err
	}

	if ins.handlerErrors, err = meter.Int64Counter("handlerErrors", metric.WithDescription("Events whose handling failed")); err != nil {
		return nil, err
	}

	if ins.processingLatencyMillis, err = meter.Int64Histogram("eventProcessingLatencyMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if ins.dispatchLatencyMillis, err = meter.Int64Histogram("eventDispatchLatencyMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	return ins, nil
}

// attributes returns the measurement attributes for an event type
func (ins *instrumenter) attributes(eventType string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("name", ins.appName), attribute.String("eventType", eventType))
}

// pluginAttributes returns the measurement attributes for a plugin
func (ins *instrumenter) pluginAttributes(plugin string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("name", ins.appName), attribute.String("plugin", plugin))
}

func eventType(e Event) string {
	switch e.(type) {
	case *IncomingMessage:
		return messageEventType
	case *CommandInvocation:
		return commandEventType
	default:
		return unknownEventType
	}
}
