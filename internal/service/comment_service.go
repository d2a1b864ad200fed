package service

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

// CommentService implements comment CRUD and moderation.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	Actor    models.Principal
	PostID   uint
	ParentID *uint
	Content  string
}

type UpdateCommentInput struct {
	Actor     models.Principal
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	Actor     models.Principal
	CommentID uint
}

type ModerateCommentInput struct {
	Actor     models.Principal
	CommentID uint
	Status    models.CommentStatus
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, models.NewInternalError(err)
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewValidationError("Parent comment does not exist")
			}
			return nil, models.NewInternalError(err)
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Content:  in.Content,
		AuthorID: in.Actor.UserID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
		Status:   models.CommentStatusPending,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// GetComment returns the comment whatever its moderation status, so
// replies below the surfaced tree depth stay reachable by id.
func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func (s *CommentService) GetAuthorComments(ctx context.Context, authorID uint) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// UpdateComment edits a comment's content. Owner-only: admins moderate
// via ModerateComment instead of editing other people's words.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	comment, err := s.ownedComment(ctx, in.Actor, in.CommentID)
	if err != nil {
		return nil, err
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.ownedComment(ctx, in.Actor, in.CommentID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", in.CommentID)
		}
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// ModerateComment sets a comment's status. Elevated-only; the change
// does not cascade to replies.
func (s *CommentService) ModerateComment(ctx context.Context, in ModerateCommentInput) (*models.Comment, error) {
	if !in.Actor.Elevated() {
		return nil, models.NewForbiddenError("Moderation requires admin access")
	}
	if !in.Status.Valid() {
		return nil, models.NewValidationError("Invalid comment status")
	}

	comment, err := s.commentRepo.UpdateStatus(ctx, in.CommentID, in.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", in.CommentID)
		}
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

func (s *CommentService) ownedComment(ctx context.Context, actor models.Principal, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	if comment.AuthorID != actor.UserID {
		return nil, models.NewForbiddenError("You do not own this comment")
	}
	return comment, nil
}
