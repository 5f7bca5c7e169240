package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/config"
	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
)

const snapshotCacheKey = "latest"

// RateDTO is the externally visible view of one authoritative rate.
type RateDTO struct {
	MetalKey    enums.MetalKey  `json:"metal_key"`
	RatePerGram decimal.Decimal `json:"rate_per_gram"`
	ObservedAt  time.Time       `json:"observed_at"`
}

// SetRateInput is the admin payload for recording a new rate observation.
type SetRateInput struct {
	MetalKey    string
	RatePerGram decimal.Decimal
	ObservedAt  *time.Time
}

// Service exposes the rate table: the public read path, the pricing
// snapshot, and the admin append path.
type Service interface {
	LatestRates(ctx context.Context) ([]RateDTO, error)
	Snapshot(ctx context.Context) (map[enums.MetalKey]decimal.Decimal, error)
	SetRate(ctx context.Context, input SetRateInput) (*RateDTO, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	RateSnapshotKey(key string) string
}

type service struct {
	repo     *Repository
	cache    snapshotCache
	cacheTTL time.Duration
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a rates service. The cache is optional; a nil cache
// reads the table on every call.
func NewService(repo *Repository, cache snapshotCache, cfg config.RatesConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rates repository required")
	}
	return &service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// LatestRates returns the authoritative rate per metal key, newest first.
func (s *service) LatestRates(ctx context.Context) ([]RateDTO, error) {
	if cached, ok := s.readCache(ctx); ok {
		return cached, nil
	}

	rows, err := s.repo.LatestRates(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading latest rates")
	}

	dtos := make([]RateDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, RateDTO{
			MetalKey:    row.MetalKey,
			RatePerGram: row.RatePerGram,
			ObservedAt:  row.ObservedAt,
		})
	}

	s.writeCache(ctx, dtos)
	return dtos, nil
}

// Snapshot returns the rate-per-gram map pricing consumes. A missing key in
// the map is the pricing engine's signal to degrade, so an empty table is
// not an error here.
func (s *service) Snapshot(ctx context.Context) (map[enums.MetalKey]decimal.Decimal, error) {
	dtos, err := s.LatestRates(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[enums.MetalKey]decimal.Decimal, len(dtos))
	for _, dto := range dtos {
		snapshot[dto.MetalKey] = dto.RatePerGram
	}
	return snapshot, nil
}

// SetRate appends a new observation and invalidates the cached snapshot.
func (s *service) SetRate(ctx context.Context, input SetRateInput) (*RateDTO, error) {
	key, err := enums.ParseMetalKey(input.MetalKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid metal key")
	}
	if input.RatePerGram.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate_per_gram must be positive")
	}

	observedAt := s.now().UTC()
	if input.ObservedAt != nil {
		observedAt = input.ObservedAt.UTC()
	}

	row, err := s.repo.Insert(ctx, &models.MetalRate{
		MetalKey:    key,
		RatePerGram: input.RatePerGram.Round(2),
		ObservedAt:  observedAt,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording rate observation")
	}

	s.invalidateCache(ctx)

	return &RateDTO{
		MetalKey:    row.MetalKey,
		RatePerGram: row.RatePerGram,
		ObservedAt:  row.ObservedAt,
	}, nil
}

func (s *service) readCache(ctx context.Context) ([]RateDTO, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.RateSnapshotKey(snapshotCacheKey))
	if err != nil || raw == "" {
		return nil, false
	}
	var dtos []RateDTO
	if err := json.Unmarshal([]byte(raw), &dtos); err != nil {
		return nil, false
	}
	return dtos, true
}

func (s *service) writeCache(ctx context.Context, dtos []RateDTO) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(dtos)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.RateSnapshotKey(snapshotCacheKey), string(raw), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("caching rate snapshot: %v", err))
	}
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.cache.RateSnapshotKey(snapshotCacheKey)); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("invalidating rate snapshot cache: %v", err))
	}
}
