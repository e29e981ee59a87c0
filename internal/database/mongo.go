package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vegist/internal/models"
	"vegist/internal/resilience"
)

var ErrClosed = errors.New("database provider closed")

type Options struct {
	URI          string
	Name         string
	Attempts     int
	RetryDelay   time.Duration
	ConnectLimit time.Duration
}

// Provider owns the process-wide store connection. The first call to
// Database connects; every later call returns the same handle, or the
// error from that first attempt. Close may run concurrently with that
// first connect; the late client is then disconnected and ErrClosed
// returned.
type Provider struct {
	opts    Options
	connect func(ctx context.Context, opts Options) (*mongo.Client, error)

	once   sync.Once
	client *mongo.Client
	db     *mongo.Database
	err    error

	mu     sync.Mutex
	closed bool
}

func NewProvider(opts Options) *Provider {
	if opts.ConnectLimit <= 0 {
		opts.ConnectLimit = 30 * time.Second
	}
	return &Provider{opts: opts, connect: dial}
}

func (p *Provider) Database(ctx context.Context) (*mongo.Database, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	p.once.Do(func() {
		start := time.Now()
		var client *mongo.Client
		err := resilience.Retry(ctx, p.opts.Attempts, p.opts.RetryDelay, func(ctx context.Context) error {
			c, err := p.connect(ctx, p.opts)
			if err != nil {
				return err
			}
			client = c
			return nil
		})
		if err != nil {
			p.err = fmt.Errorf("connect to document store: %w", err)
			return
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = client.Disconnect(context.Background())
			p.err = ErrClosed
			return
		}
		p.client = client
		p.db = client.Database(p.opts.Name)
		p.mu.Unlock()
		slog.Info("Connected to document store", "database", p.opts.Name, "duration", time.Since(start))
	})
	return p.db, p.err
}

func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.client == nil {
		return nil
	}
	return p.client.Disconnect(ctx)
}

func dial(ctx context.Context, opts Options) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.ConnectLimit)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerAPIOptions(serverAPI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates unique indexes backing the one-per-key rules for
// users, cart items and favorites. Existing duplicates make it fail.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]string{
		models.UsersCollection:     "email",
		models.CartCollection:      "product_id",
		models.FavoritesCollection: "product_id",
	}
	for coll, field := range indexes {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(field + "_unique"),
		}
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create unique index on %s.%s: %w", coll, field, err)
		}
	}
	return nil
}
