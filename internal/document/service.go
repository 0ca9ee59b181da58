package document

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/onboarding-tracker/internal"
	documentDatamodel "github.com/frahmantamala/onboarding-tracker/internal/core/datamodel/document"
	"github.com/frahmantamala/onboarding-tracker/internal/core/events"
)

type Repository interface {
	Create(ctx context.Context, doc *documentDatamodel.Document) error
	GetByID(ctx context.Context, id int64) (*documentDatamodel.Document, error)
	// Review applies the decision and returns the updated row with the status
	// it replaced. With requirePending set a reviewed document is a Conflict.
	Review(ctx context.Context, id int64, decision ReviewRecord, requirePending bool) (*documentDatamodel.Document, string, error)
	ListByUser(ctx context.Context, userID int64) ([]*documentDatamodel.Document, error)
	ListPending(ctx context.Context) ([]*documentDatamodel.PendingRow, error)
}

// BlobStore persists uploaded bytes and hands back an opaque reference.
type BlobStore interface {
	Put(ctx context.Context, originalName string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

type ReviewRecord struct {
	Status     string
	Comment    *string
	ReviewerID int64
	ReviewedAt time.Time
}

// Policy controls whether HR may overwrite a decision already made.
type Policy struct {
	AllowReReview bool
}

type Service struct {
	repo      Repository
	blobs     BlobStore
	publisher events.Publisher
	policy    Policy
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, blobs BlobStore, publisher events.Publisher, policy Policy, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		blobs:     blobs,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload records a new PENDING document. Earlier uploads of the same type,
// rejected or not, are left untouched.
func (s *Service) Upload(ctx context.Context, userID int64, dto UploadDTO) (*Document, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("document upload validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	doc := &documentDatamodel.Document{
		UserID:     userID,
		DocType:    dto.DocType,
		FileRef:    dto.FileRef,
		Status:     StatusPending,
		UploadedAt: s.now(),
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("failed to create document", "error", err, "user_id", userID, "doc_type", dto.DocType)
		return nil, internal.AsAppError(err, "failed to save document")
	}

	s.logger.Info("document uploaded", "document_id", doc.ID, "user_id", userID, "doc_type", doc.DocType)
	s.publish(ctx, events.NewDocumentUploadedEvent(doc.ID, userID, doc.DocType))
	return FromDataModel(doc), nil
}

// UploadFile stores the bytes in the blob store and then records the document.
// The blob is removed again if the row cannot be written.
func (s *Service) UploadFile(ctx context.Context, userID int64, docType, fileName string, r io.Reader) (*Document, error) {
	if err := ValidateDocType(docType); err != nil {
		return nil, err
	}

	ref, err := s.blobs.Put(ctx, fileName, r)
	if err != nil {
		s.logger.Warn("failed to store uploaded file", "error", err, "user_id", userID)
		return nil, internal.AsAppError(err, "failed to store file")
	}

	doc, err := s.Upload(ctx, userID, UploadDTO{DocType: docType, FileRef: ref})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, ref); delErr != nil {
			s.logger.Error("failed to remove orphaned upload", "error", delErr, "file_ref", ref)
		}
		return nil, err
	}
	return doc, nil
}

// Review records HR's decision. Whether an APPROVED or REJECTED document may
// be decided again depends on Policy.AllowReReview.
func (s *Service) Review(ctx context.Context, docID, reviewerID int64, dto ReviewDTO) (*Decision, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record := ReviewRecord{
		Status:     dto.Status,
		Comment:    dto.Comment,
		ReviewerID: reviewerID,
		ReviewedAt: s.now(),
	}
	doc, previous, err := s.repo.Review(ctx, docID, record, !s.policy.AllowReReview)
	if err != nil {
		s.logger.Warn("document review failed", "error", err, "document_id", docID, "reviewer_id", reviewerID)
		return nil, internal.AsAppError(err, "failed to review document")
	}

	if previous != StatusPending {
		s.logger.Warn("document decision overwritten",
			"document_id", docID,
			"previous_status", previous,
			"status", dto.Status,
			"reviewer_id", reviewerID)
	} else {
		s.logger.Info("document reviewed", "document_id", docID, "status", dto.Status, "reviewer_id", reviewerID)
	}

	s.publish(ctx, events.NewDocumentReviewedEvent(docID, reviewerID, previous, dto.Status, dto.Comment))
	return &Decision{Document: FromDataModel(doc), PreviousStatus: previous}, nil
}

// Get returns a document to its owner or to HR.
func (s *Service) Get(ctx context.Context, docID int64, requester *internal.Identity) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, internal.AsAppError(err, "failed to load document")
	}

	if !requester.IsHR() && doc.UserID != requester.UserID {
		s.logger.Warn("document access denied", "document_id", docID, "user_id", requester.UserID)
		return nil, internal.ErrNotDocumentOwner
	}
	return FromDataModel(doc), nil
}

// OpenFile returns the stored bytes of a document the requester may see.
func (s *Service) OpenFile(ctx context.Context, docID int64, requester *internal.Identity) (*Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, docID, requester)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(ctx, doc.FileRef)
	if err != nil {
		s.logger.Error("failed to open document file", "error", err, "document_id", docID, "file_ref", doc.FileRef)
		return nil, nil, internal.AsAppError(err, "failed to open document file")
	}
	return doc, rc, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]*Document, error) {
	docs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err, "user_id", userID)
		return nil, internal.AsAppError(err, "failed to list documents")
	}
	return FromDataModelSlice(docs), nil
}

// ListPending returns the HR review queue, oldest upload first.
func (s *Service) ListPending(ctx context.Context) ([]*PendingDocument, error) {
	rows, err := s.repo.ListPending(ctx)
	if err != nil {
		s.logger.Error("failed to list pending documents", "error", err)
		return nil, internal.AsAppError(err, "failed to list pending documents")
	}
	return PendingFromDataModelSlice(rows), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Error("event subscribers failed", "error", err, "event_type", event.EventType())
	}
}
