// Package service contains the application's domain logic.
package service

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

// PostService implements post operations on top of the repositories.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	Actor      models.Principal
	Title      string
	Content    string
	Tags       []string
	IsFeatured bool
	Status     models.PostStatus
}

type ListPostsInput struct {
	Filter repository.PostFilter
	Page   repository.PageRequest
}

type UpdatePostInput struct {
	Actor      models.Principal
	PostID     uint
	Title      *string
	Content    *string
	Status     *models.PostStatus
	IsFeatured *bool
	Tags       *[]string
}

type DeletePostInput struct {
	Actor  models.Principal
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !status.Valid() {
		return nil, models.NewValidationError("Invalid post status")
	}

	// Featuring is an elevated capability.
	isFeatured := in.IsFeatured
	if !in.Actor.Elevated() {
		isFeatured = false
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		Tags:       in.Tags,
		IsFeatured: isFeatured,
		Status:     status,
		AuthorID:   in.Actor.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*models.PostPage, error) {
	if in.Filter.Status != nil && !in.Filter.Status.Valid() {
		return nil, models.NewValidationError("Invalid post status filter")
	}
	page, err := s.postRepo.List(ctx, in.Filter, in.Page)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return page, nil
}

// GetPost returns the post with its approved comment tree. The view
// counter is incremented as part of the same retrieval.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByIDWithTree(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// GetAuthorPosts returns every post by the author as a single full page.
func (s *PostService) GetAuthorPosts(ctx context.Context, authorID uint) (*models.PostPage, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", authorID)
		}
		return nil, models.NewInternalError(err)
	}

	posts, err := s.postRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	page := models.SinglePage(posts)
	return &page, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if in.Title != nil && (*in.Title == "" || len(*in.Title) > maxTitleLen) {
		return nil, models.NewValidationError("Title must be between 1 and 300 characters")
	}
	if in.Content != nil && (*in.Content == "" || len(*in.Content) > maxContentLen) {
		return nil, models.NewValidationError("Content must be between 1 and 50000 characters")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, models.NewValidationError("Invalid post status")
	}

	update := repository.PostUpdate{
		Title:      in.Title,
		Content:    in.Content,
		Status:     in.Status,
		IsFeatured: in.IsFeatured,
		Tags:       in.Tags,
	}

	authorScope, err := s.authorScope(ctx, in.Actor, in.PostID)
	if err != nil {
		return nil, err
	}
	if !in.Actor.Elevated() {
		// Featuring stays out of reach for the owner; the rest of the
		// payload is applied as-is.
		update.IsFeatured = nil
	}

	post, err := s.postRepo.Update(ctx, in.PostID, authorScope, update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (*models.Post, error) {
	authorScope, err := s.authorScope(ctx, in.Actor, in.PostID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.Delete(ctx, in.PostID, authorScope)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// authorScope resolves the WHERE scope of a mutation. Elevated actors
// mutate by id alone; everyone else must own the post, and the returned
// scope re-checks ownership in the mutation itself so a concurrent
// transfer still loses.
func (s *PostService) authorScope(ctx context.Context, actor models.Principal, postID uint) (*uint, error) {
	if actor.Elevated() {
		return nil, nil
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	if post.AuthorID != actor.UserID {
		return nil, models.NewForbiddenError("You do not own this post")
	}
	scope := actor.UserID
	return &scope, nil
}
