package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// --- Mock implementations ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Tests ---

func TestService_Register(t *testing.T) {
	t.Run("creates user with hashed password and normalized email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, ErrUserNotFound)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)

		user, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "  Alice@Example.COM ",
			Name:     "Alice",
			Password: "correct-horse",
		})

		assert.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "correct-horse", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		existing := &User{ID: uuid.New(), Email: "bob@example.com"}
		repo.On("GetByEmail", mock.Anything, "bob@example.com").Return(existing, nil)

		_, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "bob@example.com",
			Name:     "Bob",
			Password: "long-enough",
		})

		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("rejects short password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		_, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "carol@example.com",
			Name:     "Carol",
			Password: "short",
		})

		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		_, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "dave@example.com",
			Name:     "   ",
			Password: "long-enough",
		})

		assert.ErrorIs(t, err, ErrNameRequired)
	})
}

func TestService_VerifyPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22hunter22"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	svc := NewService(new(MockRepository), zap.NewNop())
	user := &User{PasswordHash: string(hash)}

	assert.True(t, svc.VerifyPassword(user, "hunter22hunter22"))
	assert.False(t, svc.VerifyPassword(user, "wrong"))
}

func TestService_UpdateProfile(t *testing.T) {
	t.Run("updates name", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(&User{ID: id, Name: "Old"}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)

		name := "New Name"
		user, err := svc.UpdateProfile(context.Background(), id, &UpdateProfileRequest{Name: &name})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(&User{ID: id, Name: "Old"}, nil)

		name := ""
		_, err := svc.UpdateProfile(context.Background(), id, &UpdateProfileRequest{Name: &name})

		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())

		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, ErrUserNotFound)

		_, err := svc.UpdateProfile(context.Background(), id, &UpdateProfileRequest{})

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail(" A@B.Com "))
	assert.Equal(t, "x@y.io", NormalizeEmail("x@y.io"))
}
