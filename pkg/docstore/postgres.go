package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/campus/pkg/lifecycle"
	"github.com/JaimeStill/campus/pkg/repository"
)

// TimeLayout is the fixed-width UTC layout used for time values inside JSONB
// payloads, so lexical ordering of the stored strings matches chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const returning = "RETURNING id, data, created_at, updated_at"

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var columns = map[string]string{
	FieldID:        "id",
	FieldCreatedAt: "created_at",
	FieldUpdatedAt: "updated_at",
}

type postgresStore struct {
	db          *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// newPostgres opens the pool and configures limits without connecting.
// The documents table is created by cmd/migrate.
func newPostgres(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxPoolSize)
	db.SetMaxIdleConns(max(cfg.MaxPoolSize/5, 1))
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &postgresStore{
		db:          db,
		logger:      logger,
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (p *postgresStore) Collection(name string) Collection {
	return &pgCollection{db: p.db, name: name}
}

func (p *postgresStore) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting document store")

	lc.OnStartup(func() error {
		pingCtx, cancel := context.WithTimeout(lc.Context(), p.connTimeout)
		defer cancel()

		if err := p.db.PingContext(pingCtx); err != nil {
			p.logger.Error("database ping failed", "error", err)
			return fmt.Errorf("postgres ping: %w", err)
		}

		p.logger.Info("document store connection established")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.logger.Info("closing document store connection")

		if err := p.db.Close(); err != nil {
			p.logger.Error("database close failed", "error", err)
			return
		}

		p.logger.Info("document store connection closed")
	})

	return nil
}

type pgCollection struct {
	db   *sql.DB
	name string
}

func (c *pgCollection) Insert(ctx context.Context, fields Document) (Document, error) {
	data, err := EncodeJSON(fields)
	if err != nil {
		return nil, err
	}

	q := `INSERT INTO documents (id, collection, data) VALUES ($1, $2, $3::jsonb) ` + returning

	doc, err := repository.QueryOne(ctx, c.db, q, []any{uuid.New(), c.name, data}, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return doc, nil
}

func (c *pgCollection) Find(ctx context.Context, sort ...Sort) ([]Document, error) {
	order, err := OrderClause(sort)
	if err != nil {
		return nil, err
	}

	q := `SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1 ORDER BY ` + order

	docs, err := repository.QueryMany(ctx, c.db, q, []any{c.name}, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.name, err)
	}
	return docs, nil
}

func (c *pgCollection) FindByID(ctx context.Context, id string) (Document, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	q := `SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`
	return c.optional(ctx, "find", q, c.name, uid)
}

func (c *pgCollection) UpdateByID(ctx context.Context, id string, fields Document) (Document, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	data, err := EncodeJSON(fields)
	if err != nil {
		return nil, err
	}

	q := `UPDATE documents SET data = data || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2 ` + returning
	return c.optional(ctx, "update", q, c.name, uid, data)
}

func (c *pgCollection) DeleteByID(ctx context.Context, id string) (Document, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	q := `DELETE FROM documents WHERE collection = $1 AND id = $2 ` + returning
	return c.optional(ctx, "delete", q, c.name, uid)
}

func (c *pgCollection) Clear(ctx context.Context) error {
	if _, err := repository.Exec(ctx, c.db, `DELETE FROM documents WHERE collection = $1`, c.name); err != nil {
		return fmt.Errorf("clear %s: %w", c.name, err)
	}
	return nil
}

func (c *pgCollection) optional(ctx context.Context, op, q string, args ...any) (Document, error) {
	doc, err := repository.QueryOptional(ctx, c.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", op, c.name, err)
	}
	if doc == nil {
		return nil, nil
	}
	return *doc, nil
}

// EncodeJSON serializes the non-reserved fields of a document for JSONB storage.
// Time values are written in TimeLayout.
func EncodeJSON(fields Document) (string, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if isReserved(k) {
			continue
		}
		if t, ok := v.(time.Time); ok {
			v = t.UTC().Format(TimeLayout)
		}
		out[k] = v
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(data), nil
}

// OrderClause renders sort fields as an SQL ORDER BY list. Reserved fields map
// to their columns; other fields are read from the JSONB payload, with
// missing values ordered before present ones when ascending.
func OrderClause(sort []Sort) (string, error) {
	if len(sort) == 0 {
		return "created_at, id", nil
	}

	parts := make([]string, 0, len(sort)+1)
	for _, s := range sort {
		dir := "ASC"
		if s.Descending {
			dir = "DESC"
		}

		if col, ok := columns[s.Field]; ok {
			parts = append(parts, col+" "+dir)
			continue
		}

		if !fieldPattern.MatchString(s.Field) {
			return "", fmt.Errorf("%w: %q", ErrInvalidField, s.Field)
		}

		// Missing payload fields sort as the lowest value, matching the
		// memory and mongo drivers.
		nulls := "NULLS FIRST"
		if s.Descending {
			nulls = "NULLS LAST"
		}
		parts = append(parts, fmt.Sprintf("data->>'%s' %s %s", s.Field, dir, nulls))
	}
	parts = append(parts, "id")

	return strings.Join(parts, ", "), nil
}

func scanDocument(s repository.Scanner) (Document, error) {
	var (
		id        uuid.UUID
		data      []byte
		createdAt time.Time
		updatedAt time.Time
	)

	if err := s.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	doc := Document{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
	}

	doc[FieldID] = id.String()
	doc[FieldCreatedAt] = createdAt.UTC()
	doc[FieldUpdatedAt] = updatedAt.UTC()
	return doc, nil
}
