// Package messaging publica eventos de dominio en Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/stockflow-api/internal/application/ports"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

var (
	_ ports.EventPublisher = (*KafkaPublisher)(nil)
	_ ports.EventPublisher = (*LogPublisher)(nil)
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escribe cada evento en el tópico <prefix>.<evento>.
// El contexto de traza viaja en los headers del mensaje.
type KafkaPublisher struct {
	w     messageWriter
	topic func(string) string
}

// NewKafkaPublisher crea el writer sin tópico fijo; cada mensaje lleva el suyo.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		BatchSize:              100,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{w: w, topic: cfg.Topic}
}

func newKafkaPublisher(w messageWriter, topic func(string) string) *KafkaPublisher {
	return &KafkaPublisher{w: w, topic: topic}
}

// Publish serializa los eventos en JSON y los escribe en un solo lote.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...ports.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("kafka: serializar %s: %w", ev.Topic, err)
		}
		carrier := propagation.MapCarrier{}
		otel.GetTextMapPropagator().Inject(ctx, carrier)

		headers := make([]kafka.Header, 0, len(carrier)+1)
		headers = append(headers, kafka.Header{Key: "event-type", Value: []byte(ev.Topic)})
		for k, v := range carrier {
			headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
		}
		msgs = append(msgs, kafka.Message{
			Topic:   p.topic(ev.Topic),
			Key:     []byte(ev.Key),
			Value:   payload,
			Headers: headers,
		})
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: publicar %d eventos: %w", len(msgs), err)
	}
	return nil
}

// Close vacía los lotes pendientes y cierra las conexiones.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// LogPublisher registra los eventos en el log; se usa cuando Kafka no está configurado.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publicador de respaldo.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.Component("events")}
}

// Publish escribe una línea de debug por evento.
func (p *LogPublisher) Publish(_ context.Context, events ...ports.Event) error {
	for _, ev := range events {
		p.log.Debug().Str("topic", ev.Topic).Str("key", ev.Key).Msg("evento de dominio")
	}
	return nil
}
