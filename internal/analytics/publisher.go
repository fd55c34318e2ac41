// Package analytics streams completed orders to kafka for the reporting
// pipeline. Publishing is best-effort: a lost event never affects the
// buyer's order.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type OrderLine struct {
	ProductID string  `json:"producto"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precioUnitario"`
}

type OrderEvent struct {
	OrderNumber   string      `json:"order_number"`
	SessionID     string      `json:"session_id"`
	PaymentMethod string      `json:"metodo_pago"`
	Items         []OrderLine `json:"items"`
	TotalPaid     float64     `json:"total_pagado"`
	ShippingCost  float64     `json:"costo_envio"`
	CompletedAt   time.Time   `json:"completed_at"`
}

// EventPublisher is what checkout depends on; Publisher below is the
// kafka implementation.
type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, event OrderEvent) error
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) PublishOrderCompleted(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderNumber),
		Value: payload,
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("error closing kafka writer: %v", err)
	}
}
