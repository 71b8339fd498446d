// Package events carries kingdom notifications (upgrade completions,
// recruitment, registration) to websocket subscribers.
package events

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_publisher.go -package=eventsmock github.com/KirkDiggler/kingdom-api/internal/events Publisher

// Type names an event
type Type string

// Event types
const (
	TypeKingdomRegistered Type = "kingdom_registered"
	TypeUpgradeStarted    Type = "upgrade_started"
	TypeUpgradeCompleted  Type = "upgrade_completed"
	TypeUnitsRecruited    Type = "units_recruited"
)

// Event is one notification about a kingdom
type Event struct {
	Type       Type           `json:"type"`
	KingdomID  string         `json:"kingdom_id"`
	BuildingID string         `json:"building_id,omitempty"`
	Level      int            `json:"level,omitempty"`
	Tick       uint64         `json:"tick,omitempty"`
	At         time.Time      `json:"at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Publisher delivers events. Publish must not block the caller on slow
// subscribers.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Nop discards every event
type Nop struct{}

// Publish does nothing
func (Nop) Publish(context.Context, Event) {}
