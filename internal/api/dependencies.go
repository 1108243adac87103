package api

import (
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"aerosafety/labelboard/internal/common"
	"aerosafety/labelboard/internal/db"
	"aerosafety/labelboard/internal/db/repositories"
	"aerosafety/labelboard/internal/metrics"
	"aerosafety/labelboard/internal/services"
)

type Repositories struct {
	Users     *repositories.UserRepository
	Items     *repositories.ItemRepository
	Events    *repositories.EventRepository
	Reviews   *repositories.ReviewRepository
	Taxonomy  *repositories.TaxonomyRepository
	Analytics *repositories.AnalyticsRepository
}

type Services struct {
	Cache     common.CacheInterface
	Notifier  services.Notifier
	Topics    *services.TopicService
	Items     *services.ItemService
	Review    *services.ReviewService
	Analytics *services.AnalyticsService
	Locks     *services.LockService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies wires repositories and services over the shared database
// handles and Redis client.
func InitDependencies(metricsReg *metrics.MetricsRegistry, redisClient *redis.Client) (*Dependencies, error) {

	repos := &Repositories{
		Users:     repositories.NewUserRepository(db.PgDB),
		Items:     repositories.NewItemRepository(db.PgDB),
		Events:    repositories.NewEventRepository(db.PgDB),
		Reviews:   repositories.NewReviewRepository(db.PgDB),
		Taxonomy:  repositories.NewTaxonomyRepository(db.PgDB),
		Analytics: repositories.NewAnalyticsRepository(db.DB),
	}

	// Single-replica deployments keep the in-process cache; set
	// CACHE_BACKEND=redis when running more than one instance.
	var cacheSvc common.CacheInterface = common.NewCacheService(600, 600)
	if os.Getenv("CACHE_BACKEND") == "redis" && redisClient != nil {
		cacheSvc = common.NewRedisCacheService(redisClient)
	}

	var notifier services.Notifier = services.NoopNotifier{}
	if redisClient != nil {
		notifier = services.NewRedisNotificationDispatcher(redisClient)
	}

	topicSvc := services.NewTopicService(repos.Taxonomy, repos.Items, cacheSvc)

	svcs := &Services{
		Cache:     cacheSvc,
		Notifier:  notifier,
		Topics:    topicSvc,
		Items:     services.NewItemService(repos.Items, repos.Events, topicSvc),
		Review:    services.NewReviewService(db.PgDB, repos.Reviews, notifier),
		Analytics: services.NewAnalyticsService(repos.Events, repos.Analytics, cacheSvc),
	}
	if redisClient != nil {
		svcs.Locks = services.NewLockService(redisClient, 10*time.Minute)
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
	}, nil
}
