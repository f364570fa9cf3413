package address

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nekogravitycat/car-rental-bff/internal/pkg/logger"
)

type Service interface {
	Provinces(ctx context.Context) ([]Division, error)
	Districts(ctx context.Context, provinceCode int) ([]Division, error)
	Wards(ctx context.Context, districtCode int) ([]Division, error)
}

type service struct {
	repo  Repository
	cache Cache
	group singleflight.Group
}

func NewService(repo Repository, cache Cache) Service {
	return &service{repo: repo, cache: cache}
}

func (s *service) Provinces(ctx context.Context) ([]Division, error) {
	return s.lookup(ctx, "provinces", s.repo.Provinces)
}

func (s *service) Districts(ctx context.Context, provinceCode int) ([]Division, error) {
	return s.lookup(ctx, "districts:"+strconv.Itoa(provinceCode), func(ctx context.Context) ([]Division, error) {
		return s.repo.Districts(ctx, provinceCode)
	})
}

func (s *service) Wards(ctx context.Context, districtCode int) ([]Division, error) {
	return s.lookup(ctx, "wards:"+strconv.Itoa(districtCode), func(ctx context.Context) ([]Division, error) {
		return s.repo.Wards(ctx, districtCode)
	})
}

// lookup serves key from the cache and otherwise loads it once for all
// concurrent callers. Cache failures degrade to a direct backend read.
func (s *service) lookup(ctx context.Context, key string, load func(context.Context) ([]Division, error)) ([]Division, error) {
	log := logger.FromContext(ctx)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn("address cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	// Shared loads must not fail for every waiter when the first caller leaves.
	v, err, _ := s.group.Do(key, func() (any, error) {
		divisions, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, divisions); err != nil {
			log.Warn("address cache write failed", zap.String("key", key), zap.Error(err))
		}
		return divisions, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	divisions := v.([]Division)
	return append([]Division(nil), divisions...), nil
}
