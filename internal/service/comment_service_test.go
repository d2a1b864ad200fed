package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listByAuthorFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn       func(context.Context, *models.Comment) error
	deleteFn       func(context.Context, uint) error
	updateStatusFn func(context.Context, uint, models.CommentStatus) (*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Comment, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) UpdateStatus(ctx context.Context, id uint, status models.CommentStatus) (*models.Comment, error) {
	return s.updateStatusFn(ctx, id, status)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:       func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:      func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByAuthorFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:       func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		updateStatusFn: func(_ context.Context, _ uint, _ models.CommentStatus) (*models.Comment, error) {
			return &models.Comment{}, nil
		},
	}
}

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{Actor: member(1), PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			Actor:   member(1),
			PostID:  1,
			Content: strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewCommentService(noopCommentRepo(), postRepo)
		_, err := svc.CreateComment(ctx, CreateCommentInput{Actor: member(1), PostID: 99, Content: "hi"})
		assertErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("missing parent", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		parent := uint(7)
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			Actor: member(1), PostID: 1, ParentID: &parent, Content: "hi",
		})
		assertValidationError(t, err)
	})

	t.Run("parent on another post", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 2}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		parent := uint(7)
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			Actor: member(1), PostID: 1, ParentID: &parent, Content: "hi",
		})
		assertValidationError(t, err)
	})

	t.Run("author comes from the principal and status starts pending", func(t *testing.T) {
		t.Parallel()
		var created *models.Comment
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 42
			created = c
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		got, err := svc.CreateComment(ctx, CreateCommentInput{Actor: member(5), PostID: 1, Content: "hi"})
		require.NoError(t, err)
		assert.EqualValues(t, 42, got.ID)
		assert.EqualValues(t, 5, created.AuthorID)
		assert.Equal(t, models.CommentStatusPending, created.Status)
	})
}

func TestCommentService_UpdateComment_OwnerOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ownedBy := func(authorID uint) *commentRepoStub {
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorID: authorID, Content: "old"}, nil
		}
		return repo
	}

	t.Run("owner edits", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(ownedBy(1), noopPostRepo())
		got, err := svc.UpdateComment(ctx, UpdateCommentInput{Actor: member(1), CommentID: 3, Content: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", got.Content)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(ownedBy(2), noopPostRepo())
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{Actor: member(1), CommentID: 3, Content: "new"})
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("admin has no edit bypass", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(ownedBy(2), noopPostRepo())
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{Actor: admin(1), CommentID: 3, Content: "new"})
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("missing comment", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewCommentService(repo, noopPostRepo())
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{Actor: member(1), CommentID: 3, Content: "new"})
		assertErrorCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_DeleteComment_OwnerOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := noopCommentRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, AuthorID: 2}, nil
	}
	svc := NewCommentService(repo, noopPostRepo())

	_, err := svc.DeleteComment(ctx, DeleteCommentInput{Actor: member(1), CommentID: 3})
	assertErrorCode(t, err, models.CodeForbidden)

	_, err = svc.DeleteComment(ctx, DeleteCommentInput{Actor: admin(1), CommentID: 3})
	assertErrorCode(t, err, models.CodeForbidden)

	got, err := svc.DeleteComment(ctx, DeleteCommentInput{Actor: member(2), CommentID: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.ID)
}

func TestCommentService_ModerateComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("non-admin is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.ModerateComment(ctx, ModerateCommentInput{
			Actor: member(1), CommentID: 3, Status: models.CommentStatusApproved,
		})
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.ModerateComment(ctx, ModerateCommentInput{
			Actor: admin(1), CommentID: 3, Status: models.CommentStatus("SHADOWBANNED"),
		})
		assertValidationError(t, err)
	})

	t.Run("admin approves", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.updateStatusFn = func(_ context.Context, id uint, status models.CommentStatus) (*models.Comment, error) {
			return &models.Comment{ID: id, Status: status}, nil
		}
		svc := NewCommentService(repo, noopPostRepo())
		got, err := svc.ModerateComment(ctx, ModerateCommentInput{
			Actor: admin(1), CommentID: 3, Status: models.CommentStatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, models.CommentStatusApproved, got.Status)
	})

	t.Run("missing comment", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.updateStatusFn = func(_ context.Context, _ uint, _ models.CommentStatus) (*models.Comment, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewCommentService(repo, noopPostRepo())
		_, err := svc.ModerateComment(ctx, ModerateCommentInput{
			Actor: admin(1), CommentID: 3, Status: models.CommentStatusRejected,
		})
		assertErrorCode(t, err, models.CodeNotFound)
	})
}
