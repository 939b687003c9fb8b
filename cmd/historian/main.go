// cmd/historian/main.go is an asynchronous ledger service that pops spin
// records from the Redis queue and persists them to the directory database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/eatup-app/eatup/internal/cache"
	"github.com/eatup-app/eatup/internal/config"
	"github.com/eatup-app/eatup/internal/database"
)

// LedgerService batches spin records off the Redis queue into the spins
// table, and periodically expires stale presence rows in the directory.
type LedgerService struct {
	redisClient *redis.Client
	batchSize   int
	flushDelay  time.Duration
	staleAfter  time.Duration

	batchMu  sync.Mutex
	batch    []cache.SpinRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

func newLedgerService(cfg *config.Config) *LedgerService {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &LedgerService{
		redisClient: rdb,
		batchSize:   getEnvInt("LEDGER_BATCH_SIZE", 20),
		flushDelay:  time.Duration(getEnvInt("LEDGER_FLUSH_MS", 500)) * time.Millisecond,
		staleAfter:  time.Duration(getEnvInt("PRESENCE_STALE_SEC", 600)) * time.Second,
		batch:       make([]cache.SpinRecord, 0, 20),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run starts the two loops: the queue drain and the presence sweep.
func (ls *LedgerService) Run() {
	go ls.readRedisLoop()
	go ls.presenceSweepLoop()

	log.Info("eatup-historian service started")
	<-ls.ctx.Done()
	log.Info("eatup-historian shutting down")
}

// readRedisLoop continuously uses BLPop to retrieve spin records.
func (ls *LedgerService) readRedisLoop() {
	ticker := time.NewTicker(ls.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ls.ctx.Done():
			ls.flushBatchToDB()
			return

		case <-ticker.C:
			ls.flushBatchToDB()

		default:
			// BLPop with a short timeout so context cancellation is handled.
			res, err := ls.redisClient.BLPop(ls.ctx, 3*time.Second, cache.SpinQueueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if ls.ctx.Err() != nil {
					return
				}
				log.Errorf("BLPop: %v", err)
				continue
			}
			if len(res) < 2 {
				continue
			}

			var record cache.SpinRecord
			if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
				log.Warnf("invalid spin record: %v", err)
				continue
			}
			ls.appendToBatch(record)
		}
	}
}

// appendToBatch adds a record and flushes once the threshold is reached.
func (ls *LedgerService) appendToBatch(record cache.SpinRecord) {
	ls.batchMu.Lock()
	defer ls.batchMu.Unlock()

	ls.batch = append(ls.batch, record)
	if len(ls.batch) >= ls.batchSize {
		ls.flushBatchLocked()
	}
}

func (ls *LedgerService) flushBatchToDB() {
	ls.batchMu.Lock()
	defer ls.batchMu.Unlock()
	ls.flushBatchLocked()
}

// flushBatchLocked writes the batch in one transaction. Assumes batchMu held.
func (ls *LedgerService) flushBatchLocked() {
	if len(ls.batch) == 0 {
		return
	}
	batchCopy := make([]cache.SpinRecord, len(ls.batch))
	copy(batchCopy, ls.batch)
	ls.batch = ls.batch[:0]

	ctx := context.Background()
	err := beginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range batchCopy {
			if err := insertSpinTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertSpinTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("flush spin batch: %v", err)
	} else {
		log.Infof("flushed %d spins to the ledger", len(batchCopy))
	}
}

// insertSpinTx inserts one spin record. Replays of an already-persisted spin
// are ignored so the queue stays safe to re-deliver.
func insertSpinTx(ctx context.Context, tx pgx.Tx, rec cache.SpinRecord) error {
	q := `
		INSERT INTO spins (id, user_id, price_range, offer_id, restaurant_id, created_at)
		VALUES ($1, $2, $3, $4, $5, to_timestamp($6))
		ON CONFLICT (id) DO NOTHING
	`
	_, err := tx.Exec(ctx, q,
		rec.SpinID, rec.UserID, string(rec.PriceRange), rec.OfferID, rec.RestaurantID, rec.Timestamp,
	)
	return err
}

// presenceSweepLoop periodically marks users offline once their last_seen is
// older than the staleness threshold, so friend lists don't show ghosts.
func (ls *LedgerService) presenceSweepLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ls.ctx.Done():
			return

		case <-ticker.C:
			q := `
				UPDATE users
				SET online_status = 'offline'
				WHERE online_status <> 'offline'
				  AND last_seen < NOW() - $1::interval
			`
			interval := fmt.Sprintf("%d seconds", int(ls.staleAfter.Seconds()))
			tag, err := database.DB.Exec(context.Background(), q, interval)
			if err != nil {
				log.Errorf("presence sweep: %v", err)
				continue
			}
			if tag.RowsAffected() > 0 {
				log.Infof("marked %d users offline", tag.RowsAffected())
			}
		}
	}
}

// Stop gracefully stops the ledger service.
func (ls *LedgerService) Stop() {
	ls.cancelFn()
}

// beginTxFunc starts a transaction on the pool, calls f, and commits or rolls
// back as needed.
func beginTxFunc(ctx context.Context, pool *pgxpool.Pool, txOptions pgx.TxOptions, f func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx rollback error: %v; original error: %w", rbErr, err)
		}
		return err
	}
	return tx.Commit(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	database.ConnectDB(cfg.DatabaseURL())

	ls := newLedgerService(cfg)
	go ls.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	ls.Stop()
	log.Info("historian shutdown complete")
}

func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	var i int
	if _, err := fmt.Sscanf(v, "%d", &i); err != nil {
		return defVal
	}
	return i
}
