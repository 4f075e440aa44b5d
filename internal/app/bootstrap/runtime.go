package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/lex-code-hooks/internal/config"
	"github.com/wolfman30/lex-code-hooks/internal/session"
	"github.com/wolfman30/lex-code-hooks/pkg/logging"
)

// AWSConfigLoader resolves SDK configuration; cmd/mainconfig.LoadAWSConfig satisfies it.
type AWSConfigLoader func(ctx context.Context, cfg *appconfig.Config) (aws.Config, error)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildSessionStore picks the simulator's session backend. An unreachable
// Redis degrades to memory; an unknown backend name is an error.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, loadAWS AWSConfigLoader) (session.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.SessionStore {
	case "", appconfig.SessionStoreMemory:
		logger.Info("using in-memory session store")
		return session.NewMemoryStore(), nil
	case appconfig.SessionStoreRedis:
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			logger.Warn("falling back to in-memory session store")
			return session.NewMemoryStore(), nil
		}
		logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL.String())
		return session.NewRedisStore(client, cfg.SessionTTL), nil
	case appconfig.SessionStoreDynamoDB:
		if loadAWS == nil {
			return nil, fmt.Errorf("bootstrap: aws config loader is required for %s sessions", cfg.SessionStore)
		}
		awsCfg, err := loadAWS(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		logger.Info("using dynamodb session store", "table", cfg.SessionsTable)
		return session.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.SessionsTable, cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown session store %q", cfg.SessionStore)
	}
}
