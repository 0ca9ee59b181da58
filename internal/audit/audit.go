package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/onboarding-tracker/internal"
	auditDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/audit"
	"github.com/frahmantamala/onboarding-tracker/internal/core/events"
)

// Entry is one recorded lifecycle event.
type Entry struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	EntityID   int64           `json:"entity_id"`
	ActorID    *int64          `json:"actor_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Recorder persists published events to audit_events. Replays of the same
// event id are ignored.
type Recorder struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRecorder(db *gorm.DB, logger *slog.Logger) *Recorder {
	return &Recorder{
		db:     db,
		logger: logger,
	}
}

// Subscribe registers the recorder for every lifecycle event type.
func (r *Recorder) Subscribe(bus *events.EventBus) {
	for _, eventType := range events.AllEventTypes {
		bus.Subscribe(eventType, r.Handle)
	}
}

func (r *Recorder) Handle(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return internal.NewInternalError("failed to encode audit payload", err)
	}

	row := &auditDatamodel.Event{
		EventID:    event.EventID(),
		EventType:  event.EventType(),
		Payload:    string(payload),
		OccurredAt: event.OccurredAt(),
	}
	if le, ok := event.(*events.LifecycleEvent); ok {
		row.EntityID = le.EntityID
		row.ActorID = le.ActorID
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(row).Error
	if err != nil {
		r.logger.Error("failed to record audit event", "error", err, "event_type", row.EventType, "event_id", row.EventID)
		return err
	}
	return nil
}

// History returns the recorded events of one type for one entity, oldest first.
func (r *Recorder) History(ctx context.Context, eventType string, entityID int64) ([]*Entry, error) {
	var rows []*auditDatamodel.Event
	err := r.db.WithContext(ctx).
		Where("event_type = ? AND entity_id = ?", eventType, entityID).
		Order("occurred_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		r.logger.Error("failed to load audit history", "error", err, "event_type", eventType, "entity_id", entityID)
		return nil, internal.NewInternalError("failed to load audit history", err)
	}

	entries := make([]*Entry, len(rows))
	for i, row := range rows {
		entries[i] = &Entry{
			EventID:    row.EventID,
			EventType:  row.EventType,
			EntityID:   row.EntityID,
			ActorID:    row.ActorID,
			Payload:    json.RawMessage(row.Payload),
			OccurredAt: row.OccurredAt,
		}
	}
	return entries, nil
}
