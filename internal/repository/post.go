// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"fmt"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// PostFilter holds the optional conditions of a post listing. Each set
// field contributes one AND fragment; unset fields contribute nothing.
type PostFilter struct {
	Search     string
	Tags       []string
	IsFeatured *bool
	Status     *models.PostStatus
	AuthorID   *uint
}

// PageRequest describes the page and ordering of a post listing.
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// DefaultPageLimit is used when no limit is requested.
const DefaultPageLimit = 10

// MaxPageLimit caps the page size of any listing.
const MaxPageLimit = 100

var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"views":      true,
}

// Normalize clamps the page request into its valid range and falls back
// to created_at DESC for unknown sort columns or orders.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if !sortableColumns[p.SortBy] {
		p.SortBy = "created_at"
	}
	order := strings.ToLower(p.SortOrder)
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	p.SortOrder = order
	return p
}

func (p PageRequest) orderClause() string {
	return fmt.Sprintf("posts.%s %s", p.SortBy, p.SortOrder)
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Limit
}

// PostUpdate carries the partial fields of a post update; nil fields
// are left untouched.
type PostUpdate struct {
	Title      *string
	Content    *string
	Status     *models.PostStatus
	IsFeatured *bool
	Tags       *[]string
}

func (u PostUpdate) changes() map[string]interface{} {
	updates := map[string]interface{}{}
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.IsFeatured != nil {
		updates["is_featured"] = *u.IsFeatured
	}
	return updates
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	List(ctx context.Context, filter PostFilter, page PageRequest) (*models.PostPage, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByIDWithTree(ctx context.Context, id uint) (*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error)
	Update(ctx context.Context, id uint, authorID *uint, update PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id uint, authorID *uint) (*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	post.Tags = normalizeTags(post.Tags)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return replaceTags(tx, post.ID, post.Tags)
	})
	if err == nil {
		cache.Invalidate(ctx, cache.AuthorPostsKey(post.AuthorID))
	}
	return err
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, page PageRequest) (*models.PostPage, error) {
	defer observability.TrackQuery("list", "posts")()

	page = page.Normalize()

	var total int64
	if err := applyPostFilter(r.db.WithContext(ctx).Model(&models.Post{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []*models.Post
	err := withCommentCounts(applyPostFilter(r.db.WithContext(ctx).Model(&models.Post{}), filter)).
		Preload("Author").
		Order(page.orderClause()).
		Limit(page.Limit).
		Offset(page.offset()).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, posts); err != nil {
		return nil, err
	}

	return &models.PostPage{
		Data:       posts,
		Pagination: models.NewPagination(total, page.Page, page.Limit),
	}, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := withCommentCounts(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("Author").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByIDWithTree returns the post with its three-level tree of approved
// comments. The view counter increment and the read run in one
// transaction: either the caller sees the bumped count, or nothing
// happened at all.
func (r *postRepository) GetByIDWithTree(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get_with_tree", "posts")()

	approvedAsc := func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", models.CommentStatusApproved).Order("created_at ASC")
	}

	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		observability.PostViews.Inc()

		return withCommentCounts(tx.Model(&models.Post{})).
			Preload("Author").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Where("parent_id IS NULL AND status = ?", models.CommentStatusApproved).
					Order("created_at DESC")
			}).
			Preload("Comments.Author").
			Preload("Comments.Replies", approvedAsc).
			Preload("Comments.Replies.Author").
			Preload("Comments.Replies.Replies", approvedAsc).
			Preload("Comments.Replies.Replies.Author").
			First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	defer observability.TrackQuery("list_by_author", "posts")()

	var posts []*models.Post
	err := cache.Aside(ctx, cache.AuthorPostsKey(authorID), &posts, cache.PostTTL, func() error {
		if err := withCommentCounts(r.db.WithContext(ctx).Model(&models.Post{})).
			Preload("Author").
			Where("posts.author_id = ?", authorID).
			Order("posts.created_at DESC").
			Find(&posts).Error; err != nil {
			return err
		}
		return r.loadTags(ctx, posts)
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, id uint, authorID *uint, update PostUpdate) (*models.Post, error) {
	defer observability.TrackQuery("update", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := update.changes()
		if len(updates) > 0 {
			res := scopePost(tx.Model(&models.Post{}), id, authorID).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		} else {
			var count int64
			if err := scopePost(tx.Model(&models.Post{}), id, authorID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		if update.Tags != nil {
			return replaceTags(tx, id, normalizeTags(*update.Tags))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, id, post.AuthorID)
	return post, nil
}

// Delete removes the post with its tags and comments. The author scope
// behaves like Update: zero matched rows surface as ErrRecordNotFound.
func (r *postRepository) Delete(ctx context.Context, id uint, authorID *uint) (*models.Post, error) {
	defer observability.TrackQuery("delete", "posts")()

	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scopePost(tx, id, authorID).First(&post).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, id, post.AuthorID)
	return &post, nil
}

// scopePost restricts a query to the post id, and to the author when
// the caller is not elevated.
func scopePost(db *gorm.DB, id uint, authorID *uint) *gorm.DB {
	db = db.Where("posts.id = ?", id)
	if authorID != nil {
		db = db.Where("posts.author_id = ?", *authorID)
	}
	return db
}

// withCommentCounts annotates each post with its total comment count in
// a single query via a SELECT subquery alias.
func withCommentCounts(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count")
}

// applyPostFilter ANDs one WHERE fragment per present filter field.
func applyPostFilter(db *gorm.DB, filter PostFilter) *gorm.DB {
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where(
			"LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id AND post_tags.tag = ?)",
			like, like, q,
		)
	}
	if tags := normalizeTags(filter.Tags); len(tags) > 0 {
		db = db.Where(
			"(SELECT COUNT(DISTINCT tag) FROM post_tags WHERE post_tags.post_id = posts.id AND post_tags.tag IN ?) = ?",
			tags, len(tags),
		)
	}
	if filter.IsFeatured != nil {
		db = db.Where("posts.is_featured = ?", *filter.IsFeatured)
	}
	if filter.Status != nil {
		db = db.Where("posts.status = ?", *filter.Status)
	}
	if filter.AuthorID != nil {
		db = db.Where("posts.author_id = ?", *filter.AuthorID)
	}
	return db
}

// replaceTags swaps the post's tag rows for the given set.
func replaceTags(tx *gorm.DB, postID uint, tags []string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostTag{}).Error; err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	rows := make([]models.PostTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, models.PostTag{PostID: postID, Tag: tag})
	}
	return tx.Create(&rows).Error
}

// normalizeTags trims, drops empties, and deduplicates while keeping
// first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// loadTags populates Tags for each post from post_tags in one query.
func (r *postRepository) loadTags(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var rows []models.PostTag
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", ids).
		Order("tag ASC").
		Find(&rows).Error; err != nil {
		return err
	}

	byPost := make(map[uint][]string, len(posts))
	for _, row := range rows {
		byPost[row.PostID] = append(byPost[row.PostID], row.Tag)
	}
	for _, p := range posts {
		if tags, ok := byPost[p.ID]; ok {
			p.Tags = tags
		} else {
			p.Tags = []string{}
		}
	}
	return nil
}
