package audit

import "time"

type Event struct {
	ID         int64     `gorm:"primaryKey"`
	EventID    string    `gorm:"column:event_id;uniqueIndex;not null"`
	EventType  string    `gorm:"column:event_type;not null;index"`
	EntityID   int64     `gorm:"column:entity_id;not null"`
	ActorID    *int64    `gorm:"column:actor_id"`
	Payload    string    `gorm:"column:payload;not null"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null"`
}

func (Event) TableName() string {
	return "audit_events"
}
