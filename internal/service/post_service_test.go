package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	listFn            func(context.Context, repository.PostFilter, repository.PageRequest) (*models.PostPage, error)
	getByIDFn         func(context.Context, uint) (*models.Post, error)
	getByIDWithTreeFn func(context.Context, uint) (*models.Post, error)
	listByAuthorFn    func(context.Context, uint) ([]*models.Post, error)
	updateFn          func(context.Context, uint, *uint, repository.PostUpdate) (*models.Post, error)
	deleteFn          func(context.Context, uint, *uint) (*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, page repository.PageRequest) (*models.PostPage, error) {
	return s.listFn(ctx, filter, page)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByIDWithTree(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDWithTreeFn(ctx, id)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) Update(ctx context.Context, id uint, authorID *uint, update repository.PostUpdate) (*models.Post, error) {
	return s.updateFn(ctx, id, authorID, update)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint, authorID *uint) (*models.Post, error) {
	return s.deleteFn(ctx, id, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _ repository.PageRequest) (*models.PostPage, error) {
			return &models.PostPage{}, nil
		},
		getByIDFn:         func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getByIDWithTreeFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listByAuthorFn:    func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn: func(_ context.Context, _ uint, _ *uint, _ repository.PostUpdate) (*models.Post, error) {
			return &models.Post{}, nil
		},
		deleteFn: func(_ context.Context, _ uint, _ *uint) (*models.Post, error) { return &models.Post{}, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateRoleFn    func(context.Context, uint, models.Role) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id uint, role models.Role) error {
	return s.updateRoleFn(ctx, id, role)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		updateRoleFn:    func(_ context.Context, _ uint, _ models.Role) error { return nil },
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func member(userID uint) models.Principal {
	return models.Principal{UserID: userID, Role: models.RoleUser}
}

func admin(userID uint) models.Principal {
	return models.Principal{UserID: userID, Role: models.RoleAdmin}
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopUserRepo())
	ctx := context.Background()

	t.Run("empty title", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{Actor: member(1), Content: "body"})
		assertValidationError(t, err)
	})

	t.Run("title too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{
			Actor:   member(1),
			Title:   strings.Repeat("x", 301),
			Content: "body",
		})
		assertValidationError(t, err)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{Actor: member(1), Title: "t"})
		assertValidationError(t, err)
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{
			Actor:   member(1),
			Title:   "t",
			Content: "body",
			Status:  models.PostStatus("SPARKLING"),
		})
		assertValidationError(t, err)
	})
}

func TestPostService_CreatePost_FeaturedStripping(t *testing.T) {
	t.Parallel()

	var created *models.Post
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}
	svc := NewPostService(repo, noopUserRepo())
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, CreatePostInput{
		Actor: member(5), Title: "t", Content: "c", IsFeatured: true,
	})
	require.NoError(t, err)
	assert.False(t, created.IsFeatured)
	assert.EqualValues(t, 5, created.AuthorID)
	assert.Equal(t, models.PostStatusDraft, created.Status)

	_, err = svc.CreatePost(ctx, CreatePostInput{
		Actor: admin(9), Title: "t", Content: "c", IsFeatured: true,
		Status: models.PostStatusPublished,
	})
	require.NoError(t, err)
	assert.True(t, created.IsFeatured)
	assert.Equal(t, models.PostStatusPublished, created.Status)
}

func TestPostService_GetPost(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDWithTreeFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewPostService(repo, noopUserRepo())
		_, err := svc.GetPost(context.Background(), 42)
		assertErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("success passes through", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDWithTreeFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Views: 3}, nil
		}
		svc := NewPostService(repo, noopUserRepo())
		post, err := svc.GetPost(context.Background(), 42)
		require.NoError(t, err)
		assert.EqualValues(t, 3, post.Views)
	})
}

func TestPostService_GetAuthorPosts(t *testing.T) {
	t.Parallel()

	t.Run("unknown author", func(t *testing.T) {
		t.Parallel()
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewPostService(noopPostRepo(), userRepo)
		_, err := svc.GetAuthorPosts(context.Background(), 42)
		assertErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("single full page envelope", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.listByAuthorFn = func(_ context.Context, _ uint) ([]*models.Post, error) {
			return []*models.Post{{ID: 1}, {ID: 2}, {ID: 3}}, nil
		}
		svc := NewPostService(repo, noopUserRepo())
		page, err := svc.GetAuthorPosts(context.Background(), 7)
		require.NoError(t, err)
		assert.EqualValues(t, 3, page.Pagination.Total)
		assert.Equal(t, 1, page.Pagination.Page)
		assert.Equal(t, 3, page.Pagination.Limit)
		assert.Equal(t, 1, page.Pagination.TotalPages)
	})
}

func TestPostService_UpdatePost_Authorization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewPostService(repo, noopUserRepo())
		_, err := svc.UpdatePost(ctx, UpdatePostInput{Actor: member(1), PostID: 9})
		assertErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("foreign post is forbidden", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 2}, nil
		}
		svc := NewPostService(repo, noopUserRepo())
		_, err := svc.UpdatePost(ctx, UpdatePostInput{Actor: member(1), PostID: 9})
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("owner update strips featured and scopes by author", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1}, nil
		}
		var gotScope *uint
		var gotUpdate repository.PostUpdate
		repo.updateFn = func(_ context.Context, _ uint, authorID *uint, update repository.PostUpdate) (*models.Post, error) {
			gotScope = authorID
			gotUpdate = update
			return &models.Post{}, nil
		}
		svc := NewPostService(repo, noopUserRepo())

		featured := true
		status := models.PostStatusArchived
		_, err := svc.UpdatePost(ctx, UpdatePostInput{
			Actor:      member(1),
			PostID:     9,
			IsFeatured: &featured,
			Status:     &status,
		})
		require.NoError(t, err)
		require.NotNil(t, gotScope)
		assert.EqualValues(t, 1, *gotScope)
		assert.Nil(t, gotUpdate.IsFeatured, "owner cannot change featuring")
		require.NotNil(t, gotUpdate.Status)
		assert.Equal(t, models.PostStatusArchived, *gotUpdate.Status)
	})

	t.Run("admin updates any post unscoped", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			t.Fatal("elevated update must not pre-fetch")
			return nil, nil
		}
		var gotScope *uint
		var gotUpdate repository.PostUpdate
		repo.updateFn = func(_ context.Context, _ uint, authorID *uint, update repository.PostUpdate) (*models.Post, error) {
			gotScope = authorID
			gotUpdate = update
			return &models.Post{}, nil
		}
		svc := NewPostService(repo, noopUserRepo())

		featured := true
		_, err := svc.UpdatePost(ctx, UpdatePostInput{
			Actor:      admin(3),
			PostID:     9,
			IsFeatured: &featured,
		})
		require.NoError(t, err)
		assert.Nil(t, gotScope)
		require.NotNil(t, gotUpdate.IsFeatured)
		assert.True(t, *gotUpdate.IsFeatured)
	})

	t.Run("lost race surfaces as not found", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1}, nil
		}
		repo.updateFn = func(_ context.Context, _ uint, _ *uint, _ repository.PostUpdate) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewPostService(repo, noopUserRepo())
		title := "new"
		_, err := svc.UpdatePost(ctx, UpdatePostInput{Actor: member(1), PostID: 9, Title: &title})
		assertErrorCode(t, err, models.CodeNotFound)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("foreign post is forbidden", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 8}, nil
		}
		svc := NewPostService(repo, noopUserRepo())
		_, err := svc.DeletePost(ctx, DeletePostInput{Actor: member(1), PostID: 9})
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("owner delete returns the record", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1}, nil
		}
		repo.deleteFn = func(_ context.Context, id uint, authorID *uint) (*models.Post, error) {
			require.NotNil(t, authorID)
			return &models.Post{ID: id, Title: "gone"}, nil
		}
		svc := NewPostService(repo, noopUserRepo())
		post, err := svc.DeletePost(ctx, DeletePostInput{Actor: member(1), PostID: 9})
		require.NoError(t, err)
		assert.Equal(t, "gone", post.Title)
	})

	t.Run("repo failure wraps as internal", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.deleteFn = func(_ context.Context, _ uint, _ *uint) (*models.Post, error) {
			return nil, errors.New("connection reset")
		}
		svc := NewPostService(repo, noopUserRepo())
		_, err := svc.DeletePost(ctx, DeletePostInput{Actor: admin(1), PostID: 9})
		assertErrorCode(t, err, models.CodeInternal)
	})
}
