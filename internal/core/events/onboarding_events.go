package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEquipmentAssigned     = "equipment.assigned"
	EventTypeEquipmentAcknowledged = "equipment.acknowledged"
	EventTypeEquipmentReturned     = "equipment.returned"
	EventTypeDocumentUploaded      = "document.uploaded"
	EventTypeDocumentReviewed      = "document.reviewed"
)

// AllEventTypes lists every lifecycle event the services publish.
var AllEventTypes = []string{
	EventTypeEquipmentAssigned,
	EventTypeEquipmentAcknowledged,
	EventTypeEquipmentReturned,
	EventTypeDocumentUploaded,
	EventTypeDocumentReviewed,
}

// LifecycleEvent is the common envelope: the entity it concerns and who acted.
type LifecycleEvent struct {
	BaseEvent
	EntityID int64  `json:"entity_id"`
	ActorID  *int64 `json:"actor_id,omitempty"`
}

func newLifecycleEvent(eventType string, entityID int64, actorID *int64, data map[string]interface{}) *LifecycleEvent {
	return &LifecycleEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		EntityID: entityID,
		ActorID:  actorID,
	}
}

func NewEquipmentAssignedEvent(assignmentID, equipmentID, userID, actorID int64) *LifecycleEvent {
	return newLifecycleEvent(EventTypeEquipmentAssigned, assignmentID, &actorID, map[string]interface{}{
		"assignment_id": assignmentID,
		"equipment_id":  equipmentID,
		"user_id":       userID,
	})
}

func NewEquipmentAcknowledgedEvent(assignmentID, userID int64) *LifecycleEvent {
	return newLifecycleEvent(EventTypeEquipmentAcknowledged, assignmentID, &userID, map[string]interface{}{
		"assignment_id": assignmentID,
		"user_id":       userID,
	})
}

func NewEquipmentReturnedEvent(assignmentID, equipmentID, actorID int64, returnedAt time.Time) *LifecycleEvent {
	return newLifecycleEvent(EventTypeEquipmentReturned, assignmentID, &actorID, map[string]interface{}{
		"assignment_id": assignmentID,
		"equipment_id":  equipmentID,
		"returned_at":   returnedAt,
	})
}

func NewDocumentUploadedEvent(documentID, userID int64, docType string) *LifecycleEvent {
	return newLifecycleEvent(EventTypeDocumentUploaded, documentID, &userID, map[string]interface{}{
		"document_id": documentID,
		"doc_type":    docType,
	})
}

// NewDocumentReviewedEvent keeps the previous decision so an overwrite stays auditable.
func NewDocumentReviewedEvent(documentID, reviewerID int64, previousStatus, status string, comment *string) *LifecycleEvent {
	data := map[string]interface{}{
		"document_id":     documentID,
		"previous_status": previousStatus,
		"status":          status,
	}
	if comment != nil {
		data["comment"] = *comment
	}
	return newLifecycleEvent(EventTypeDocumentReviewed, documentID, &reviewerID, data)
}
