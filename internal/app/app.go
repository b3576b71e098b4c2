package app

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/slot-booking/internal/audit"
	"github.com/BruksfildServices01/slot-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/slot-booking/internal/db"
	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	infraRepo "github.com/BruksfildServices01/slot-booking/internal/infra/repository"
	"github.com/BruksfildServices01/slot-booking/internal/lock"
	"github.com/BruksfildServices01/slot-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/slot-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/slot-booking/internal/worker"
)

// Store is the storage and audit pair selected by STORAGE_DRIVER. DB is nil
// for the memory driver.
type Store struct {
	Repo  domain.Repository
	Audit *audit.Dispatcher
	DB    *gorm.DB
}

func (s *Store) Close() {
	s.Audit.Close()
}

func OpenStore(cfg *config.Config, logger *zap.Logger) *Store {
	timezone.SetDefault(cfg.DefaultTimezone)

	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return &Store{
			Repo:  infraRepo.NewBookingMemoryRepository(),
			Audit: audit.NewDispatcher(audit.NewZapSink(logger), logger),
		}
	}

	db := dbpkg.NewDB(cfg, logger)
	return &Store{
		Repo:  infraRepo.NewBookingGormRepository(db),
		Audit: audit.NewDispatcher(audit.NewGormSink(db), logger),
		DB:    db,
	}
}

// NewSweepRunner wires the sweep usecase, adding the Redis lease when
// REDIS_ADDR is set. The returned client, if any, must be closed by the caller.
func NewSweepRunner(
	ctx context.Context,
	cfg *config.Config,
	store *Store,
	logger *zap.Logger,
) (*worker.SweepRunner, *redis.Client, error) {

	var locker *lock.Locker
	var client *redis.Client

	if cfg.RedisAddr != "" {
		var err error
		client, err = lock.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			return nil, nil, err
		}
		locker = lock.NewLocker(client)
	}

	sweep := ucBooking.NewSweepStaleReservations(store.Repo, store.Audit, logger, cfg.SweepBatchSize)
	runner := worker.NewSweepRunner(sweep, locker, cfg.SweepLockTTL, cfg.SweepInterval, logger)
	return runner, client, nil
}
