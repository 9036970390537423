package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  []Service `json:"services"`
}

type Service struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker pings the database and, when configured, Redis. A nil Redis
// client is skipped. Only the database decides the overall status: the
// service reads through to PostgreSQL when the cache is unreachable.
type Checker struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func (h *Checker) Check(ctx context.Context) Status {
	services := []Service{}
	overall := StatusHealthy

	if h.DB != nil {
		svc := h.ping(ctx, "PostgreSQL", func(ctx context.Context) error {
			sqlDB, err := h.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
		if svc.Status != "up" {
			overall = StatusDegraded
		}
		services = append(services, svc)
	}

	if h.Redis != nil {
		svc := h.ping(ctx, "Redis", func(ctx context.Context) error {
			return h.Redis.Ping(ctx).Err()
		})
		services = append(services, svc)
	}

	return Status{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}

func (h *Checker) ping(ctx context.Context, name string, fn func(context.Context) error) Service {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := fn(ctx); err != nil {
		return Service{Name: name, Status: "down", Message: err.Error()}
	}
	return Service{Name: name, Status: "up"}
}
