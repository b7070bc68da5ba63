package quizzes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/campus/pkg/docstore"
	"github.com/JaimeStill/campus/pkg/metrics"
	"github.com/JaimeStill/campus/pkg/validation"
)

// Option configures the quiz System.
type Option func(*service)

// WithClock sets the clock used to decide whether a due date is in the past.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithLocation sets the time zone defining "today" and plain due dates.
func WithLocation(loc *time.Location) Option {
	return func(s *service) {
		s.loc = loc
	}
}

type service struct {
	repo      Repository
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
	loc       *time.Location
}

// New creates the quiz System over repo.
func New(repo Repository, logger *slog.Logger, opts ...Option) System {
	s := &service{
		repo:      repo,
		validator: validation.New(),
		logger:    logger.With("system", "quizzes"),
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) List(ctx context.Context) ([]Quiz, error) {
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find quizzes: %w", err)
	}

	items, err := ToQuizzes(docs)
	if err != nil {
		return nil, s.mappingFailed(err)
	}
	return items, nil
}

func (s *service) Find(ctx context.Context, id string) (*Quiz, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find quiz: %w", err)
	}
	return s.project(doc)
}

func (s *service) Create(ctx context.Context, cmd CreateCommand) (*Quiz, error) {
	cmd.Title = strings.TrimSpace(cmd.Title)

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	due, err := ParseDueDate(cmd.DueDate, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	status := StatusPending
	if cmd.Status != nil && *cmd.Status != "" {
		status = *cmd.Status
	}

	var description any
	if cmd.Description != nil && *cmd.Description != "" {
		description = *cmd.Description
	}

	doc, err := s.repo.Create(ctx, docstore.Document{
		fieldTitle:       cmd.Title,
		fieldCourse:      cmd.Course,
		fieldDescription: description,
		fieldDueDate:     due,
		fieldStatus:      status,
	})
	if err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	q, err := s.project(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("quiz created", "id", q.ID, "title", q.Title, "due", q.DueDate)
	return q, nil
}

func (s *service) Update(ctx context.Context, id string, cmd UpdateCommand) (*Quiz, error) {
	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		cmd.Title = &title
	}

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	fields := docstore.Document{}
	if cmd.Title != nil {
		fields[fieldTitle] = *cmd.Title
	}
	if cmd.Course != nil {
		fields[fieldCourse] = *cmd.Course
	}
	if cmd.Description != nil {
		if *cmd.Description == "" {
			fields[fieldDescription] = nil
		} else {
			fields[fieldDescription] = *cmd.Description
		}
	}
	if cmd.Status != nil {
		if *cmd.Status == "" {
			fields[fieldStatus] = StatusPending
		} else {
			fields[fieldStatus] = *cmd.Status
		}
	}
	if cmd.DueDate != nil {
		due, err := ParseDueDate(*cmd.DueDate, s.now(), s.loc)
		if err != nil {
			return nil, err
		}
		fields[fieldDueDate] = due
	}

	doc, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update quiz: %w", err)
	}

	q, err := s.project(doc)
	if err != nil || q == nil {
		return q, err
	}

	s.logger.Info("quiz updated", "id", q.ID)
	return q, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if doc != nil {
		s.logger.Info("quiz deleted", "id", id)
	}
	return nil
}

func (s *service) project(doc docstore.Document) (*Quiz, error) {
	q, err := ToQuiz(doc)
	if err != nil {
		return nil, s.mappingFailed(err)
	}
	return q, nil
}

func (s *service) mappingFailed(err error) error {
	metrics.IncMappingFailure(Collection)
	s.logger.Error("quiz mapping failed", "error", err)
	return err
}
