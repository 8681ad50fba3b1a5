package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const claveCacheStats = "dashboard:stats"

// Contador is the part of a repository the dashboard needs.
type Contador interface {
	Contar(ctx context.Context, f repository.Filtro) (int64, error)
}

type DashboardService interface {
	Estadisticas(ctx context.Context) (dto.DashboardStats, error)
}

type dashboardService struct {
	contadores map[string]Contador
	rdb        *redis.Client
	ttl        time.Duration
}

// NewDashboardService counts every collection in contadores. rdb may be nil,
// in which case counts are always read from the database.
func NewDashboardService(contadores map[string]Contador, rdb *redis.Client, ttl time.Duration) DashboardService {
	return &dashboardService{contadores: contadores, rdb: rdb, ttl: ttl}
}

func (s *dashboardService) Estadisticas(ctx context.Context) (dto.DashboardStats, error) {
	if stats, ok := s.desdeCache(ctx); ok {
		return stats, nil
	}

	stats := make(dto.DashboardStats, len(s.contadores))
	for nombre, c := range s.contadores {
		n, err := c.Contar(ctx, repository.Filtro{})
		if err != nil {
			return nil, err
		}
		stats[nombre] = n
	}

	if s.rdb != nil && s.ttl > 0 {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, claveCacheStats, raw, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Msg("dashboard: cache write failed")
			}
		}
	}
	return stats, nil
}

func (s *dashboardService) desdeCache(ctx context.Context) (dto.DashboardStats, bool) {
	if s.rdb == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, claveCacheStats).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("dashboard: cache read failed")
		}
		return nil, false
	}
	var stats dto.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return stats, true
}
