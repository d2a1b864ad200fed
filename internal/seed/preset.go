package seed

import (
	"fmt"
	"os"

	"inkwell/internal/models"

	"gopkg.in/yaml.v3"
)

// Preset describes a deterministic data set loaded from a YAML file.
// Unlike the random seeder, presets pin exact usernames, posts, and
// comment threads, so demo environments look the same on every run.
type Preset struct {
	Name  string       `yaml:"name"`
	Users []PresetUser `yaml:"users"`
}

// PresetUser is one account in a preset, with the content it authored.
type PresetUser struct {
	Username string       `yaml:"username"`
	Email    string       `yaml:"email"`
	Role     string       `yaml:"role"`
	Posts    []PresetPost `yaml:"posts"`
}

// PresetPost is one post in a preset.
type PresetPost struct {
	Title      string          `yaml:"title"`
	Content    string          `yaml:"content"`
	Status     string          `yaml:"status"`
	IsFeatured bool            `yaml:"isFeatured"`
	Tags       []string        `yaml:"tags"`
	Comments   []PresetComment `yaml:"comments"`
}

// PresetComment is one comment in a preset. Author names a preset user;
// replies nest under their parent.
type PresetComment struct {
	Author  string          `yaml:"author"`
	Content string          `yaml:"content"`
	Status  string          `yaml:"status"`
	Replies []PresetComment `yaml:"replies"`
}

// LoadPreset reads and parses a preset YAML file.
func LoadPreset(path string) (*Preset, error) {
	raw, err := os.ReadFile(path) // #nosec G304: operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}
	if len(p.Users) == 0 {
		return nil, fmt.Errorf("preset %q defines no users", path)
	}
	return &p, nil
}

// ApplyPreset loads the preset at path and writes its content to the
// database.
func (s *Seeder) ApplyPreset(path string) error {
	preset, err := LoadPreset(path)
	if err != nil {
		return err
	}
	return s.applyPreset(preset)
}

func (s *Seeder) applyPreset(preset *Preset) error {
	byName := make(map[string]*models.User, len(preset.Users))

	for _, pu := range preset.Users {
		pu := pu
		user, err := s.factory.CreateUser(func(u *models.User) {
			u.Username = pu.Username
			if pu.Email != "" {
				u.Email = pu.Email
			}
			if pu.Role != "" {
				u.Role = models.Role(pu.Role)
			}
		})
		if err != nil {
			return fmt.Errorf("preset user %q: %w", pu.Username, err)
		}
		byName[pu.Username] = user
	}

	for _, pu := range preset.Users {
		author := byName[pu.Username]
		for _, pp := range pu.Posts {
			pp := pp
			post, err := s.factory.CreatePost(author, func(p *models.Post) {
				p.Title = pp.Title
				p.Content = pp.Content
				p.IsFeatured = pp.IsFeatured
				p.Tags = pp.Tags
				if pp.Status != "" {
					p.Status = models.PostStatus(pp.Status)
				}
			})
			if err != nil {
				return fmt.Errorf("preset post %q: %w", pp.Title, err)
			}
			if err := s.applyPresetComments(byName, post, nil, pp.Comments); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) applyPresetComments(byName map[string]*models.User, post *models.Post, parent *models.Comment, comments []PresetComment) error {
	for _, pc := range comments {
		pc := pc
		author, ok := byName[pc.Author]
		if !ok {
			return fmt.Errorf("preset comment references unknown author %q", pc.Author)
		}
		comment, err := s.factory.CreateComment(author, post, parent, func(c *models.Comment) {
			c.Content = pc.Content
			if pc.Status != "" {
				c.Status = models.CommentStatus(pc.Status)
			}
		})
		if err != nil {
			return fmt.Errorf("preset comment by %q: %w", pc.Author, err)
		}
		if err := s.applyPresetComments(byName, post, comment, pc.Replies); err != nil {
			return err
		}
	}
	return nil
}
