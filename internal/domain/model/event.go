package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	OrderPlacedEventName EventType = "OrderPlaced"
)

type BaseEvent struct {
	EventID     string    `json:"eventId"`
	AggregateID string    `json:"aggregateId"`
	CreatedAt   time.Time `json:"createdAt"`
	EventType   EventType `json:"eventType"`
}

type OrderPlacedItem struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderPlacedEvent struct {
	BaseEvent
	OrderID uint              `json:"order_id"`
	UserID  uint              `json:"user_id"`
	Total   decimal.Decimal   `json:"total"`
	Items   []OrderPlacedItem `json:"items"`
}

func (e *OrderPlacedEvent) Type() EventType {
	return OrderPlacedEventName
}
