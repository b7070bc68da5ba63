package announcements

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/JaimeStill/campus/pkg/docstore"
	"github.com/JaimeStill/campus/pkg/metrics"
	"github.com/JaimeStill/campus/pkg/storage"
	"github.com/JaimeStill/campus/pkg/validation"
)

// Option configures the announcement System.
type Option func(*service)

// WithContentPolicy sanitizes announcement content with policy before it is
// validated and stored.
func WithContentPolicy(policy *bluemonday.Policy) Option {
	return func(s *service) {
		s.policy = policy
	}
}

type service struct {
	repo      Repository
	uploader  storage.Uploader
	validator *validation.Validator
	policy    *bluemonday.Policy
	logger    *slog.Logger
}

// New creates the announcement System over repo. Avatar files are stored with uploader.
func New(
	repo Repository,
	uploader storage.Uploader,
	logger *slog.Logger,
	opts ...Option,
) System {
	s := &service{
		repo:      repo,
		uploader:  uploader,
		validator: validation.New(),
		logger:    logger.With("system", "announcements"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) List(ctx context.Context) ([]Announcement, error) {
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find announcements: %w", err)
	}

	items, err := ToAnnouncements(docs)
	if err != nil {
		return nil, s.mappingFailed(err)
	}
	return items, nil
}

func (s *service) Find(ctx context.Context, id string) (*Announcement, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find announcement: %w", err)
	}
	return s.project(doc)
}

func (s *service) Create(ctx context.Context, cmd CreateCommand) (*Announcement, error) {
	cmd.Title = strings.TrimSpace(cmd.Title)
	cmd.Content = s.sanitize(cmd.Content)
	cmd.Category = emptyToNil(cmd.Category)
	cmd.AuthorAvatar = emptyToNil(cmd.AuthorAvatar)

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	if cmd.Avatar != nil {
		url, err := s.uploader.Upload(ctx, *cmd.Avatar)
		if err != nil {
			return nil, err
		}
		cmd.AuthorAvatar = &url
	}

	doc, err := s.repo.Create(ctx, docstore.Document{
		fieldTitle:        cmd.Title,
		fieldContent:      cmd.Content,
		fieldCategory:     nullable(cmd.Category),
		fieldAuthorName:   cmd.AuthorName,
		fieldAuthorAvatar: nullable(cmd.AuthorAvatar),
	})
	if err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	a, err := s.project(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("announcement created", "id", a.ID, "title", a.Title)
	return a, nil
}

func (s *service) Update(ctx context.Context, id string, cmd UpdateCommand) (*Announcement, error) {
	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		cmd.Title = &title
	}
	if cmd.Content != nil {
		content := s.sanitize(*cmd.Content)
		cmd.Content = &content
	}

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	fields := docstore.Document{}
	setIfPresent(fields, fieldTitle, cmd.Title)
	setIfPresent(fields, fieldContent, cmd.Content)
	setIfPresent(fields, fieldAuthorName, cmd.AuthorName)
	if cmd.Category != nil {
		fields[fieldCategory] = nullable(emptyToNil(cmd.Category))
	}
	if cmd.AuthorAvatar != nil {
		fields[fieldAuthorAvatar] = nullable(emptyToNil(cmd.AuthorAvatar))
	}

	if cmd.Avatar != nil {
		// avoid storing a file for an announcement that does not exist
		existing, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find announcement: %w", err)
		}
		if existing == nil {
			return nil, nil
		}

		url, err := s.uploader.Upload(ctx, *cmd.Avatar)
		if err != nil {
			return nil, err
		}
		fields[fieldAuthorAvatar] = url
	}

	doc, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update announcement: %w", err)
	}

	a, err := s.project(doc)
	if err != nil || a == nil {
		return a, err
	}

	s.logger.Info("announcement updated", "id", a.ID)
	return a, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if doc != nil {
		s.logger.Info("announcement deleted", "id", id)
	}
	return nil
}

func (s *service) project(doc docstore.Document) (*Announcement, error) {
	a, err := ToAnnouncement(doc)
	if err != nil {
		return nil, s.mappingFailed(err)
	}
	return a, nil
}

func (s *service) mappingFailed(err error) error {
	metrics.IncMappingFailure(Collection)
	s.logger.Error("announcement mapping failed", "error", err)
	return err
}

func (s *service) sanitize(content string) string {
	if s.policy == nil {
		return content
	}
	return s.policy.Sanitize(content)
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// nullable stores absent optional text as an explicit null.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func setIfPresent(fields docstore.Document, key string, v *string) {
	if v != nil {
		fields[key] = *v
	}
}
