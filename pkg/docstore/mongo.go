package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JaimeStill/campus/pkg/lifecycle"
)

type mongoStore struct {
	client      *mongo.Client
	db          *mongo.Database
	logger      *slog.Logger
	connTimeout time.Duration
}

// newMongo configures the client without dialing; the driver connects lazily
// and Start verifies connectivity.
func newMongo(cfg *Config, logger *slog.Logger) (System, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(uint64(cfg.MaxPoolSize)).
		SetMaxConnIdleTime(cfg.ConnMaxLifetimeDuration()).
		SetConnectTimeout(cfg.ConnTimeoutDuration())

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	return &mongoStore{
		client:      client,
		db:          client.Database(cfg.Name),
		logger:      logger,
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (m *mongoStore) Collection(name string) Collection {
	return &mongoCollection{
		coll: m.db.Collection(name),
		now:  engineNow,
	}
}

func (m *mongoStore) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("starting document store")

	lc.OnStartup(func() error {
		pingCtx, cancel := context.WithTimeout(lc.Context(), m.connTimeout)
		defer cancel()

		if err := m.client.Ping(pingCtx, nil); err != nil {
			m.logger.Error("mongo ping failed", "error", err)
			return fmt.Errorf("mongo ping: %w", err)
		}

		m.logger.Info("document store connection established", "database", m.db.Name())
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		m.logger.Info("closing document store connection")

		ctx, cancel := context.WithTimeout(context.Background(), m.connTimeout)
		defer cancel()

		if err := m.client.Disconnect(ctx); err != nil {
			m.logger.Error("mongo disconnect failed", "error", err)
			return
		}

		m.logger.Info("document store connection closed")
	})

	return nil
}

type mongoCollection struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (c *mongoCollection) Insert(ctx context.Context, fields Document) (Document, error) {
	doc := bson.M{}
	for k, v := range fields {
		if !isReserved(k) {
			doc[k] = v
		}
	}

	now := c.now()
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now

	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	doc[FieldID] = res.InsertedID

	return fromBSON(doc), nil
}

func (c *mongoCollection) Find(ctx context.Context, sort ...Sort) ([]Document, error) {
	opts := options.Find()
	if len(sort) > 0 {
		order := bson.D{}
		for _, s := range sort {
			dir := 1
			if s.Descending {
				dir = -1
			}
			order = append(order, bson.E{Key: s.Field, Value: dir})
		}
		opts.SetSort(order)
	}

	cur, err := c.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}

	docs := make([]Document, 0, len(raw))
	for _, r := range raw {
		docs = append(docs, fromBSON(r))
	}
	return docs, nil
}

func (c *mongoCollection) FindByID(ctx context.Context, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var raw bson.M
	err = c.coll.FindOne(ctx, bson.M{FieldID: oid}).Decode(&raw)
	return c.single(raw, err, "find")
}

func (c *mongoCollection) UpdateByID(ctx context.Context, id string, fields Document) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set := bson.M{}
	for k, v := range fields {
		if !isReserved(k) {
			set[k] = v
		}
	}
	set[FieldUpdatedAt] = c.now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var raw bson.M
	err = c.coll.FindOneAndUpdate(ctx, bson.M{FieldID: oid}, bson.M{"$set": set}, opts).Decode(&raw)
	return c.single(raw, err, "update")
}

func (c *mongoCollection) DeleteByID(ctx context.Context, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var raw bson.M
	err = c.coll.FindOneAndDelete(ctx, bson.M{FieldID: oid}).Decode(&raw)
	return c.single(raw, err, "delete")
}

func (c *mongoCollection) Clear(ctx context.Context) error {
	if _, err := c.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *mongoCollection) single(raw bson.M, err error, op string) (Document, error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", op, c.coll.Name(), err)
	}
	return fromBSON(raw), nil
}

// engineNow truncates to millisecond precision, the resolution BSON dates keep.
func engineNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func fromBSON(m bson.M) Document {
	doc := make(Document, len(m))
	for k, v := range m {
		doc[k] = normalizeBSON(v)
	}
	return doc
}

func normalizeBSON(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case bson.M:
		return fromBSON(t)
	case bson.D:
		return fromBSON(t.Map())
	case bson.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeBSON(item)
		}
		return out
	default:
		return v
	}
}
