package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores the plaintext default password instead of a hash.
	// Only for fast local iterations; never usable for login checks.
	SkipBcrypt bool
	// MaxDays bounds how far back generated timestamps are spread.
	MaxDays int
}

// Seeder populates the database with generated content.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll removes all seeded domain data. Deletion order respects
// foreign keys: comments before posts, posts before users.
func (s *Seeder) ClearAll() error {
	for _, stmt := range []string{
		"DELETE FROM comments",
		"DELETE FROM post_tags",
		"DELETE FROM posts",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("cleanup %q: %w", stmt, err)
		}
	}
	return nil
}

// Seed populates the database with users, posts, and comment threads.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	s := NewSeeder(db, opts)
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := s.SeedPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	total, err := s.SeedCommentThreads(users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", total)

	return nil
}

// SeedUsers creates n users plus one admin account.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n+1)

	admin, err := s.factory.CreateAdmin(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@inkwell.dev"
	})
	if err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedPosts creates n posts spread across the given authors.
func (s *Seeder) SeedPosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.factory.rand.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// SeedCommentThreads grows threaded discussions under the given posts.
// Each post gets a handful of top-level comments; some of those get
// replies, and some replies get replies of their own, so the three-level
// retrieval window has content at every depth.
func (s *Seeder) SeedCommentThreads(users []*models.User, posts []*models.Post) (int, error) {
	if len(users) == 0 {
		return 0, fmt.Errorf("no users to author comments")
	}

	total := 0
	for _, post := range posts {
		numTop := s.factory.rand.Intn(5) // 0..4 top-level comments
		for i := 0; i < numTop; i++ {
			author := users[s.factory.rand.Intn(len(users))]
			top, err := s.factory.CreateComment(author, post, nil)
			if err != nil {
				return total, err
			}
			total++

			numReplies := s.factory.rand.Intn(3)
			for j := 0; j < numReplies; j++ {
				replier := users[s.factory.rand.Intn(len(users))]
				reply, err := s.factory.CreateComment(replier, post, top)
				if err != nil {
					return total, err
				}
				total++

				if s.factory.rand.Intn(3) == 0 {
					if _, err := s.factory.CreateComment(
						users[s.factory.rand.Intn(len(users))], post, reply); err != nil {
						return total, err
					}
					total++
				}
			}
		}
	}
	return total, nil
}
