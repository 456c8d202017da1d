package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"barberboss/backend/internal/domain"
)

type fakeWriter struct {
	writeFn func(ctx context.Context, msgs ...kafka.Message) error
	closed  bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return f.writeFn(ctx, msgs...)
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisherPublish(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	var got []kafka.Message
	w := &fakeWriter{writeFn: func(ctx context.Context, msgs ...kafka.Message) error {
		got = append(got, msgs...)
		return nil
	}}
	p := &KafkaPublisher{writer: w, topic: DefaultTopic}

	name := "Walk-in"
	appt := domain.Appointment{
		ID:         uuid.MustParse("00000000-0000-0000-0000-000000000901"),
		ClientName: &name,
		ServiceID:  uuid.MustParse("00000000-0000-0000-0000-000000000b01"),
		StartsAt:   time.Date(2026, 1, 6, 13, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 1, 6, 14, 0, 0, 0, time.UTC),
		Status:     domain.StatusConfirmed,
	}
	ev := AppointmentEvent(TypeAppointmentCreated, appt, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC))

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{1, 2, 3},
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	if err := p.Publish(ctx, ev); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(got))
	}
	msg := got[0]
	if string(msg.Key) != appt.ID.String() {
		t.Fatalf("key = %q, want %q", msg.Key, appt.ID)
	}
	if headerValue(msg.Headers, "event_type") != TypeAppointmentCreated {
		t.Fatalf("event_type header = %q", headerValue(msg.Headers, "event_type"))
	}
	if headerValue(msg.Headers, "event_id") != ev.ID.String() {
		t.Fatalf("event_id header = %q", headerValue(msg.Headers, "event_id"))
	}
	if headerValue(msg.Headers, "traceparent") == "" {
		t.Fatalf("traceparent header missing")
	}

	var decoded Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if decoded.Appointment.ClientName == nil || *decoded.Appointment.ClientName != name {
		t.Fatalf("client_name = %v, want %q", decoded.Appointment.ClientName, name)
	}
	if decoded.Appointment.ClientID != nil {
		t.Fatalf("client_id = %v, want nil", decoded.Appointment.ClientID)
	}
	if decoded.Appointment.Status != "CONFIRMED" {
		t.Fatalf("status = %q", decoded.Appointment.Status)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("Close = %v, closed = %v", err, w.closed)
	}
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &KafkaPublisher{
		writer: &fakeWriter{writeFn: func(ctx context.Context, msgs ...kafka.Message) error { return boom }},
		topic:  DefaultTopic,
	}
	err := p.Publish(context.Background(), AppointmentEvent(TypeAppointmentDeleted, domain.Appointment{}, time.Now()))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	if _, err := NewKafkaPublisher(KafkaConfig{Brokers: " , "}); err == nil {
		t.Fatalf("expected error without brokers")
	}
	p, err := NewKafkaPublisher(KafkaConfig{Brokers: "localhost:9092"})
	if err != nil {
		t.Fatalf("NewKafkaPublisher error: %v", err)
	}
	if p.topic != DefaultTopic {
		t.Fatalf("topic = %q, want %q", p.topic, DefaultTopic)
	}
	_ = p.Close()
}

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" a:9092, ,b:9092 ")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("SplitBrokers = %v", got)
	}
}
