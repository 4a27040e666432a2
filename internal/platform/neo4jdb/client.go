package neo4jdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/opentalent/talentgraph-backend/internal/platform/envutil"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

// Connection defaults. The pool is sized for the traversal read paths, which
// open a short-lived session per query; retry time covers MERGE contention on
// shared skill nodes during full-replace sync.
const (
	defaultUser       = "neo4j"
	defaultTimeout    = 10 * time.Second
	defaultMaxPool    = 50
	defaultMaxTxRetry = 15 * time.Second
	defaultFetchBatch = 1000
)

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

// NewFromEnv returns (nil, nil) when NEO4J_URI is unset so callers can fall
// back to an in-process graph instead of failing startup.
func NewFromEnv(log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}

	uri := strings.TrimSpace(os.Getenv("NEO4J_URI"))
	if uri == "" {
		return nil, nil
	}

	user := envutil.Str("NEO4J_USER", defaultUser)
	password := envutil.Str("NEO4J_PASSWORD", "")
	database := envutil.Str("NEO4J_DATABASE", "")
	timeout := envutil.Seconds("NEO4J_TIMEOUT_SECONDS", defaultTimeout)
	maxPool := envutil.Int("NEO4J_MAX_POOL_SIZE", defaultMaxPool)

	auth := neo4j.BasicAuth(user, password, "")
	driver, err := neo4j.NewDriverWithContext(uri, auth, func(cfg *neo4j.Config) {
		cfg.MaxConnectionPoolSize = maxPool
		cfg.SocketConnectTimeout = timeout
		cfg.MaxTransactionRetryTime = defaultMaxTxRetry
		cfg.FetchSize = defaultFetchBatch
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	log.Info("connected to neo4j", "database", database, "max_pool", maxPool)
	return &Client{
		Driver:   driver,
		Database: database,
		log:      log.With("client", "Neo4jDB"),
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
