// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every generated account gets.
const DefaultPassword = "Dev-Passw0rd!23"

var tagPool = []string{
	"go", "databases", "web", "testing", "tooling", "performance",
	"concurrency", "design", "devops", "security", "opinion", "tutorial",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Role:     models.RoleUser,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = DefaultPassword
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAdmin persists a user with the admin role.
func (f *Factory) CreateAdmin(overrides ...func(*models.User)) (*models.User, error) {
	withRole := func(u *models.User) { u.Role = models.RoleAdmin }
	return f.CreateUser(append([]func(*models.User){withRole}, overrides...)...)
}

// CreatePost constructs and persists a sample `models.Post` for the given
// author, including its tag rows. Created timestamps are spread over the
// recent past so listings look lived-in.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(2, 4, 8, "\n\n"),
		AuthorID: author.ID,
		Status:   f.randomPostStatus(),
		Views:    int64(f.rand.Intn(500)),
		Tags:     f.randomTags(),
	}
	if post.Status == models.PostStatusPublished && f.rand.Intn(10) == 0 {
		post.IsFeatured = true
	}
	post.CreatedAt = f.backdated()

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	for _, tag := range post.Tags {
		if err := f.db.Create(&models.PostTag{PostID: post.ID, Tag: tag}).Error; err != nil {
			return nil, err
		}
	}
	return post, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided post authored by the provided user. Pass a parent to create a
// reply.
func (f *Factory) CreateComment(author *models.User, post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  gofakeit.Sentence(8),
		AuthorID: author.ID,
		PostID:   post.ID,
		Status:   f.randomCommentStatus(),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	comment.CreatedAt = f.backdated()

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) randomTags() []string {
	n := f.rand.Intn(4) // 0..3 tags
	picked := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(picked) < n {
		tag := tagPool[f.rand.Intn(len(tagPool))]
		if !seen[tag] {
			seen[tag] = true
			picked = append(picked, tag)
		}
	}
	return picked
}

// randomPostStatus skews towards published so the public listing has content.
func (f *Factory) randomPostStatus() models.PostStatus {
	switch f.rand.Intn(10) {
	case 0:
		return models.PostStatusArchived
	case 1, 2:
		return models.PostStatusDraft
	default:
		return models.PostStatusPublished
	}
}

// randomCommentStatus skews towards approved so post detail pages show trees.
func (f *Factory) randomCommentStatus() models.CommentStatus {
	switch f.rand.Intn(10) {
	case 0:
		return models.CommentStatusRejected
	case 1, 2:
		return models.CommentStatusPending
	default:
		return models.CommentStatusApproved
	}
}

func (f *Factory) backdated() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}
