package sheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessChecker answers whether a user may read a document they do not own.
// The collaboration service provides the production implementation.
type AccessChecker interface {
	IsCollaborator(ctx context.Context, documentID, email string) (bool, error)
}

// Service provides document operations.
type Service struct {
	repo      Repository
	access    AccessChecker
	snapshots *SnapshotStore // nil when storage is not configured
	logger    *zap.Logger
}

// NewService creates a new sheet service.
func NewService(repo Repository, access AccessChecker, snapshots *SnapshotStore, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		access:    access,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Create creates a new document, optionally seeded from a template.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, ownerEmail string, req *CreateDocumentRequest) (*Document, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	doc := &Document{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		OwnerEmail: ownerEmail,
		Title:      title,
		Cells:      CellMap{},
		RowCount:   100,
		ColCount:   26,
	}

	if req.TemplateID != "" {
		tmpl, err := TemplateByID(req.TemplateID)
		if err != nil {
			return nil, err
		}
		doc.Cells = make(CellMap, len(tmpl.Cells))
		for k, v := range tmpl.Cells {
			doc.Cells[k] = v
		}
		doc.RowCount = tmpl.RowCount
		doc.ColCount = tmpl.ColCount
	}

	if req.Cells != nil {
		for k, v := range req.Cells {
			doc.Cells[k] = v
		}
	}
	if req.RowCount > 0 {
		doc.RowCount = req.RowCount
	}
	if req.ColCount > 0 {
		doc.ColCount = req.ColCount
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.logger.Info("document created",
		zap.String("document_id", doc.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)

	return doc, nil
}

// Get returns a document if the user owns it or collaborates on it.
func (s *Service) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID, userEmail string) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.OwnerID == userID {
		return doc, nil
	}

	ok, err := s.access.IsCollaborator(ctx, doc.ID.String(), userEmail)
	if err != nil {
		return nil, fmt.Errorf("check collaboration: %w", err)
	}
	if !ok {
		return nil, ErrAccessDenied
	}

	return doc, nil
}

// List returns the user's own documents, newest first.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, page, pageSize int) (*ListDocumentsResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	docs, total, err := s.repo.ListByOwner(ctx, ownerID, &Pagination{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	summaries := make([]*DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, d.ToSummary())
	}

	return &ListDocumentsResponse{
		Documents: summaries,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// Update modifies an owned document's title or cells.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, req *UpdateDocumentRequest) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != userID {
		return nil, ErrAccessDenied
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		doc.Title = title
	}
	if req.Cells != nil {
		doc.Cells = *req.Cells
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	return doc, nil
}

// Delete soft deletes an owned document.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.OwnerID != userID {
		return ErrAccessDenied
	}
	return s.repo.SoftDelete(ctx, id)
}

// Export renders the document as CSV and uploads a best-effort snapshot to
// object storage. A snapshot failure never fails the export.
func (s *Service) Export(ctx context.Context, id uuid.UUID, userID uuid.UUID, userEmail string) ([]byte, error) {
	doc, err := s.Get(ctx, id, userID, userEmail)
	if err != nil {
		return nil, err
	}

	data, err := ExportCSV(doc)
	if err != nil {
		return nil, err
	}

	if s.snapshots != nil {
		if _, err := s.snapshots.Upload(ctx, doc.ID, data); err != nil {
			s.logger.Warn("snapshot upload failed",
				zap.String("document_id", doc.ID.String()),
				zap.Error(err),
			)
		}
	}

	return data, nil
}
