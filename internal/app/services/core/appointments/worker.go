package appointments

import (
	"context"
	"mediconnect-service/internal/app/config"
	"mediconnect-service/internal/app/contracts"
	"mediconnect-service/internal/pkg/constvars"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const fallbackSweepSpec = "@every 1m"

// Worker runs the lifecycle sweep on a cron schedule. A Redis leader lock keeps
// replicas from sweeping at the same time.
type Worker struct {
	log     *zap.Logger
	cfg     *config.InternalConfig
	locker  contracts.LockerService
	sweeper contracts.LifecycleSweeper
	cron    *cron.Cron
	runCtx  context.Context
	cancel  context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, lockerSvc contracts.LockerService, sweeper contracts.LifecycleSweeper) *Worker {
	return &Worker{log: log, cfg: cfg, locker: lockerSvc, sweeper: sweeper}
}

func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)

	c := cron.New()
	spec := w.cfg.Sweeper.CronSpec
	if _, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) }); err != nil {
		w.log.Warn("lifecycle.worker: invalid cron spec, falling back",
			zap.String("cron_spec", spec),
			zap.String("fallback", fallbackSweepSpec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(fallbackSweepSpec, func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop cancels an in-flight sweep and waits for the running job to return.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, constvars.REQUEST_ID_PREFIX+"sweep_"+uuid.NewString())

	ttl := time.Duration(w.cfg.Sweeper.LeaderLockTTLInSeconds) * time.Second
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}

	acquired, token, err := w.locker.Acquire(ctx, constvars.RedisKeySweeperLeader, ttl)
	if err != nil {
		w.log.Warn("lifecycle.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Info("lifecycle.worker: leader lock held by another instance")
		return
	}
	defer func() {
		if err := w.locker.Release(context.WithoutCancel(ctx), constvars.RedisKeySweeperLeader, token); err != nil {
			w.log.Warn("lifecycle.worker: failed to release leader lock", zap.Error(err))
		}
	}()

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Extend(refreshCtx, constvars.RedisKeySweeperLeader, token, ttl); err != nil {
					w.log.Warn("lifecycle.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	result, err := w.sweeper.Sweep(ctx)
	if err != nil {
		w.log.Error("lifecycle.worker: sweep failed", zap.Error(err))
		return
	}
	w.log.Info("lifecycle.worker: sweep finished", zap.Int(constvars.LoggingProcessedKey, result.Processed))
}
