package sheet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock implementations ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, doc *Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, pagination *Pagination) ([]*Document, int64, error) {
	args := m.Called(ctx, ownerID, pagination)
	return args.Get(0).([]*Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, doc *Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAccessChecker struct {
	mock.Mock
}

func (m *MockAccessChecker) IsCollaborator(ctx context.Context, documentID, email string) (bool, error) {
	args := m.Called(ctx, documentID, email)
	return args.Bool(0), args.Error(1)
}

// --- Tests ---

func TestService_Create(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates blank document", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockAccessChecker), nil, zap.NewNop())

		repo.On("Create", mock.Anything, mock.AnythingOfType("*sheet.Document")).Return(nil)

		doc, err := svc.Create(context.Background(), ownerID, "owner@example.com", &CreateDocumentRequest{
			Title: "Budget2024",
		})

		require.NoError(t, err)
		assert.Equal(t, "Budget2024", doc.Title)
		assert.Equal(t, ownerID, doc.OwnerID)
		assert.Equal(t, 100, doc.RowCount)
		assert.Equal(t, 26, doc.ColCount)
		assert.Empty(t, doc.Cells)
	})

	t.Run("seeds from template", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockAccessChecker), nil, zap.NewNop())

		repo.On("Create", mock.Anything, mock.AnythingOfType("*sheet.Document")).Return(nil)

		doc, err := svc.Create(context.Background(), ownerID, "owner@example.com", &CreateDocumentRequest{
			Title:      "My Budget",
			TemplateID: "budget",
		})

		require.NoError(t, err)
		assert.Equal(t, "Category", doc.Cells.Get(0, 0))
		assert.Equal(t, 50, doc.RowCount)
	})

	t.Run("template cells are copied, not shared", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockAccessChecker), nil, zap.NewNop())

		repo.On("Create", mock.Anything, mock.AnythingOfType("*sheet.Document")).Return(nil)

		doc, err := svc.Create(context.Background(), ownerID, "owner@example.com", &CreateDocumentRequest{
			Title:      "Scratch",
			TemplateID: "todo",
		})
		require.NoError(t, err)

		doc.Cells[CellKey(0, 0)] = "mutated"
		tmpl, _ := TemplateByID("todo")
		assert.Equal(t, "Task", tmpl.Cells.Get(0, 0))
	})

	t.Run("unknown template", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockAccessChecker), nil, zap.NewNop())

		_, err := svc.Create(context.Background(), ownerID, "owner@example.com", &CreateDocumentRequest{
			Title:      "X",
			TemplateID: "missing",
		})

		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("blank title", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockAccessChecker), nil, zap.NewNop())

		_, err := svc.Create(context.Background(), ownerID, "owner@example.com", &CreateDocumentRequest{
			Title: "  ",
		})

		assert.ErrorIs(t, err, ErrTitleRequired)
	})
}

func TestService_Get(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()
	docID := uuid.New()

	doc := &Document{ID: docID, OwnerID: ownerID, Title: "Shared"}

	t.Run("owner reads directly", func(t *testing.T) {
		repo := new(MockRepository)
		access := new(MockAccessChecker)
		svc := NewService(repo, access, nil, zap.NewNop())

		repo.On("GetByID", mock.Anything, docID).Return(doc, nil)

		got, err := svc.Get(context.Background(), docID, ownerID, "owner@example.com")
		require.NoError(t, err)
		assert.Equal(t, docID, got.ID)
		access.AssertNotCalled(t, "IsCollaborator")
	})

	t.Run("collaborator reads via membership", func(t *testing.T) {
		repo := new(MockRepository)
		access := new(MockAccessChecker)
		svc := NewService(repo, access, nil, zap.NewNop())

		repo.On("GetByID", mock.Anything, docID).Return(doc, nil)
		access.On("IsCollaborator", mock.Anything, docID.String(), "guest@example.com").Return(true, nil)

		got, err := svc.Get(context.Background(), docID, strangerID, "guest@example.com")
		require.NoError(t, err)
		assert.Equal(t, docID, got.ID)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		repo := new(MockRepository)
		access := new(MockAccessChecker)
		svc := NewService(repo, access, nil, zap.NewNop())

		repo.On("GetByID", mock.Anything, docID).Return(doc, nil)
		access.On("IsCollaborator", mock.Anything, docID.String(), "stranger@example.com").Return(false, nil)

		_, err := svc.Get(context.Background(), docID, strangerID, "stranger@example.com")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_Update(t *testing.T) {
	ownerID := uuid.New()
	docID := uuid.New()

	t.Run("owner updates title", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockAccessChecker), nil, zap.NewNop())

		repo.On("GetByID", mock.Anything, docID).Return(&Document{ID: docID, OwnerID: ownerID, Title: "Old"}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*sheet.Document")).Return(nil)

		title := "New"
		doc, err := svc.Update(context.Background(), docID, ownerID, &UpdateDocumentRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "New", doc.Title)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockAccessChecker), nil, zap.NewNop())

		repo.On("GetByID", mock.Anything, docID).Return(&Document{ID: docID, OwnerID: ownerID}, nil)

		title := "New"
		_, err := svc.Update(context.Background(), docID, uuid.New(), &UpdateDocumentRequest{Title: &title})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_Export(t *testing.T) {
	ownerID := uuid.New()
	docID := uuid.New()

	repo := new(MockRepository)
	svc := NewService(repo, new(MockAccessChecker), nil, zap.NewNop())

	repo.On("GetByID", mock.Anything, docID).Return(&Document{
		ID:       docID,
		OwnerID:  ownerID,
		RowCount: 5,
		ColCount: 5,
		Cells:    CellMap{CellKey(0, 0): "hello"},
	}, nil)

	data, err := svc.Export(context.Background(), docID, ownerID, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}
