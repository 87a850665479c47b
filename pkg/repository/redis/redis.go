package redis

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/secmon-lab/riskscore/pkg/domain/interfaces"
)

type Redis struct {
	client     *goredis.Client
	assessment *assessmentRepository
}

var _ interfaces.Repository = &Redis{}

type settings struct {
	password  string
	keyPrefix string
}

type Option func(*settings)

// WithKeyPrefix namespaces every key, e.g. to share one server between environments
func WithKeyPrefix(prefix string) Option {
	return func(s *settings) {
		s.keyPrefix = prefix
	}
}

// WithPassword sets the AUTH password
func WithPassword(password string) Option {
	return func(s *settings) {
		s.password = password
	}
}

// New connects to the server at addr and verifies it with PING
func New(ctx context.Context, addr string, db int, opts ...Option) (*Redis, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: s.password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr), goerr.V("db", db))
	}

	repo := newAssessmentRepository(client)
	repo.keyPrefix = s.keyPrefix

	return &Redis{
		client:     client,
		assessment: repo,
	}, nil
}

func (r *Redis) Assessment() interfaces.AssessmentRepository {
	return r.assessment
}

func (r *Redis) Close() error {
	if err := r.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close redis client")
	}
	return nil
}
