package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"credit_scoring/internal/cache"
	"credit_scoring/internal/observability"
	"credit_scoring/internal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const cacheTimeout = 2 * time.Second

type ClientServiceInterface interface {
	CreateClient(p *ClientPayload) (*Client, error)
	GetClient(id int) (*Client, error)
	ListClients(f ListFilter) (*ClientPage, error)
	UpdateClient(id int, p *ClientPayload) (*Client, error)
	DeleteClient(id int) error
	Statistics() (*Statistics, error)
}

type ClientService struct {
	repo  ClientRepositoryInterface
	db    *sql.DB
	cache *cache.ClientCache
}

func NewClientService(repo ClientRepositoryInterface, db *sql.DB, redisClient *redis.Client) ClientServiceInterface {
	return &ClientService{
		repo:  repo,
		db:    db,
		cache: cache.NewClientCache(redisClient),
	}
}

// CreateClient persists a new record with the payload's fields; everything
// else starts out NULL.
func (s *ClientService) CreateClient(p *ClientPayload) (*Client, error) {
	var created *Client
	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		c, err := s.repo.Create(tx, p)
		if err != nil {
			return err
		}
		created = c
		return nil
	}); err != nil {
		return nil, err
	}

	if m := observability.GlobalMetrics; m != nil {
		m.ClientsCreatedTotal.Inc()
	}
	s.invalidate(cache.StatisticsKey())

	return created, nil
}

// GetClient serves the record from Redis when possible and falls back to the
// database, repopulating the cache on a miss.
func (s *ClientService) GetClient(id int) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	cacheKey := cache.ClientKey(id)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var c Client
		if json.Unmarshal(cachedData, &c) == nil {
			s.countCache("client", true)
			return &c, nil
		}
	}
	s.countCache("client", false)

	c, err := s.repo.GetByID(s.db, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, c); err != nil {
		logrus.WithError(err).Warn("Failed to set cache for client")
	}

	return c, nil
}

// ListClients applies the conjunctive filters, counts the full match set and
// returns the requested page. pageSize 0 short-circuits to a single empty
// page rather than dividing by zero.
func (s *ClientService) ListClients(f ListFilter) (*ClientPage, error) {
	total, err := s.repo.Count(s.db, f)
	if err != nil {
		return nil, err
	}

	clients, err := s.repo.List(s.db, f)
	if err != nil {
		return nil, err
	}

	totalPages := 1
	if f.PageSize > 0 {
		totalPages = (total + f.PageSize - 1) / f.PageSize
	}

	return &ClientPage{
		Data:       clients,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateClient overwrites only the supplied fields and refreshes updated_at.
func (s *ClientService) UpdateClient(id int, p *ClientPayload) (*Client, error) {
	var updated *Client
	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		c, err := s.repo.Update(tx, id, p)
		if err != nil {
			return err
		}
		updated = c
		return nil
	}); err != nil {
		return nil, err
	}

	s.invalidate(cache.ClientKey(id), cache.StatisticsKey())

	return updated, nil
}

// DeleteClient removes the record unconditionally.
func (s *ClientService) DeleteClient(id int) error {
	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Delete(tx, id)
	}); err != nil {
		return err
	}

	if m := observability.GlobalMetrics; m != nil {
		m.ClientsDeletedTotal.Inc()
	}
	s.invalidate(cache.ClientKey(id), cache.StatisticsKey())

	return nil
}

// Statistics aggregates the table by credit score, cached between mutations.
func (s *ClientService) Statistics() (*Statistics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	cacheKey := cache.StatisticsKey()
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var stats Statistics
		if json.Unmarshal(cachedData, &stats) == nil {
			s.countCache("statistics", true)
			return &stats, nil
		}
	}
	s.countCache("statistics", false)

	total, byScore, err := s.repo.Statistics(s.db)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		Total:         total,
		ByCreditScore: byScore,
	}

	if err := s.cache.Set(ctx, cacheKey, stats); err != nil {
		logrus.WithError(err).Warn("Failed to set cache for statistics")
	}

	return stats, nil
}

func (s *ClientService) invalidate(keys ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := s.cache.Delete(ctx, keys...); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate client cache")
	}
}

func (s *ClientService) countCache(keyType string, hit bool) {
	m := observability.GlobalMetrics
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(keyType).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(keyType).Inc()
	}
}
