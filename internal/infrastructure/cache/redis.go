package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nemt-billing/internal/config"
	"nemt-billing/internal/domain/billing"
	"nemt-billing/internal/domain/services"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ReportCache Redis-backed cache for billing report summaries.
// Cached entries are keyed by subject and period; any write that could
// change a report invalidates all entries for the affected subject.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportCache connects to Redis and returns a report cache
func NewReportCache(cfg *config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*ReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.GetRedisAddr(),
		Password:   cfg.Password,
		DB:         cfg.Database,
		MaxRetries: cfg.MaxRetries,
		PoolSize:   cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to Redis report cache",
		zap.String("addr", cfg.GetRedisAddr()),
	)

	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (c *ReportCache) Close() error {
	return c.client.Close()
}

func invoiceKey(clinicID uuid.UUID, period billing.Period) string {
	return fmt.Sprintf("billing:invoice:%s:%s:%s",
		clinicID, period.Start.Format(dateLayout), period.End.Format(dateLayout))
}

func earningsKey(driverID uuid.UUID, period billing.Period) string {
	return fmt.Sprintf("billing:earnings:%s:%s:%s",
		driverID, period.Start.Format(dateLayout), period.End.Format(dateLayout))
}

// GetInvoice returns a cached clinic invoice, if present
func (c *ReportCache) GetInvoice(ctx context.Context, clinicID uuid.UUID, period billing.Period) (*services.ClinicInvoice, bool) {
	var invoice services.ClinicInvoice
	if !c.get(ctx, invoiceKey(clinicID, period), &invoice) {
		return nil, false
	}
	return &invoice, true
}

// SetInvoice caches a clinic invoice
func (c *ReportCache) SetInvoice(ctx context.Context, invoice *services.ClinicInvoice) error {
	return c.set(ctx, invoiceKey(invoice.ClinicID, invoice.Period), invoice)
}

// GetEarnings returns a cached driver earnings report, if present
func (c *ReportCache) GetEarnings(ctx context.Context, driverID uuid.UUID, period billing.Period) (*services.DriverEarnings, bool) {
	var earnings services.DriverEarnings
	if !c.get(ctx, earningsKey(driverID, period), &earnings) {
		return nil, false
	}
	return &earnings, true
}

// SetEarnings caches a driver earnings report
func (c *ReportCache) SetEarnings(ctx context.Context, earnings *services.DriverEarnings) error {
	return c.set(ctx, earningsKey(earnings.DriverID, earnings.Period), earnings)
}

// InvalidateDriver drops all cached earnings reports for a driver
func (c *ReportCache) InvalidateDriver(ctx context.Context, driverID uuid.UUID) error {
	return c.invalidatePattern(ctx, fmt.Sprintf("billing:earnings:%s:*", driverID))
}

// InvalidateClinic drops all cached invoices for a clinic
func (c *ReportCache) InvalidateClinic(ctx context.Context, clinicID uuid.UUID) error {
	return c.invalidatePattern(ctx, fmt.Sprintf("billing:invoice:%s:*", clinicID))
}

// get loads and decodes a cached value. Cache errors are logged and
// treated as misses; the report is recomputed instead.
func (c *ReportCache) get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Report cache read failed",
				zap.Error(err),
				zap.String("key", key),
			)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Report cache entry is corrupt, dropping it",
			zap.Error(err),
			zap.String("key", key),
		)
		c.client.Del(ctx, key)
		return false
	}

	return true
}

// set encodes and stores a value with the configured TTL
func (c *ReportCache) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

// invalidatePattern deletes all keys matching a pattern
func (c *ReportCache) invalidatePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	return nil
}
