// Package harvester - periodic re-sync of every connected shop's trailing window.
package harvester

import (
	"context"
	"fmt"
	"time"

	"github.com/ecomlab/seller_insights/internal/logger"
	"github.com/ecomlab/seller_insights/internal/logger/field"
	"github.com/ecomlab/seller_insights/internal/services/controllers"
	"github.com/ecomlab/seller_insights/internal/services/storage"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
	"github.com/ecomlab/seller_insights/internal/services/sync"
)

type (
	// config - config of harvester Controller.
	config struct {
		cntWorkers         int
		timeoutOneShopSync time.Duration
		intervalPeriodic   time.Duration
		lookbackDays       int
	}

	taskChan = chan model.Shop

	// ControllerDaemon - harvester controller.
	ControllerDaemon struct {
		*controllers.Base

		config config
		shops  storage.Shops
		engine *sync.Service

		taskCh            taskChan
		cancelWorkersFunc context.CancelFunc
	}
)

const name = "shop_harvester"

// New - constructor of harvester ControllerDaemon.
func New(
	cfg controllers.Config,
	l *logger.Logger,
	shops storage.Shops,
	engine *sync.Service,
) (*ControllerDaemon, error) {
	c := &ControllerDaemon{
		Base:              controllers.New(name, l),
		config:            config{},
		shops:             shops,
		engine:            engine,
		cancelWorkersFunc: func() {},
	}

	c.Base.RegisterShutdownFunc(
		func(ctx context.Context) { c.Shutdown(ctx) },
	)

	if err := c.parseConfig(cfg); err != nil {
		return nil, fmt.Errorf("harvester: c.parseConfig(cfg): %w", err)
	}

	c.taskCh = make(taskChan, c.config.cntWorkers)

	return c, nil
}

func (c *ControllerDaemon) parseConfig(cfg controllers.Config) error {
	var err error

	c.config.cntWorkers = cfg.Master.Harvester.CntWorkers
	c.config.lookbackDays = cfg.Master.Harvester.LookbackDays

	c.config.timeoutOneShopSync, err = time.ParseDuration(cfg.Master.Harvester.TimeoutOneShopSync)
	if err != nil {
		return fmt.Errorf("%s: can't parse time.ParseDuration(c.config.TimeoutOneShopSync): %w", c.Name, err)
	}

	c.config.intervalPeriodic, err = time.ParseDuration(cfg.Master.Harvester.IntervalPeriodicHarvest)
	if err != nil {
		return fmt.Errorf("%s: can't parse time.ParseDuration(c.config.IntervalPeriodicHarvest): %w",
			c.Name, err)
	}

	return nil
}

// Run - run controller func.
func (c *ControllerDaemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancelWorkersFunc = cancel

	go func(ctx context.Context) {
		c.Log.Info("[Harvester] Run")
		defer c.Log.Info("[Harvester] Finished")

		t := time.NewTicker(c.config.intervalPeriodic)
		defer t.Stop()

		for i := 0; i < c.config.cntWorkers; i++ {
			go c.harvestWorker(ctx, i)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				c.prepareTasks(ctx)
			}
		}
	}(ctx)

	return nil
}

// prepareTasks - push every known shop into the tasks chan.
func (c *ControllerDaemon) prepareTasks(ctx context.Context) {
	c.Log.Debug("[Harvester] prepareTasks start")

	shops, err := c.shops.List(ctx)
	if err != nil {
		c.Log.Error("[Harvester] can't list shops", field.Error(err))

		return
	}

	// nolint rangeValCopy
	for _, shop := range shops {
		select {
		case c.taskCh <- shop:

		case <-ctx.Done():
			c.Log.Warn("[Harvester] prepareTasks ctx.Done")

			return
		}
	}

	c.Log.Debug("[Harvester] prepareTasks finished")
}

// Shutdown - shutdown func.
func (c *ControllerDaemon) Shutdown(_ context.Context) {
	c.cancelWorkersFunc()
}

func (c *ControllerDaemon) harvestWorker(ctx context.Context, workerID int) {
	c.Log.Info("[HarvestWorker] started", field.Int("workerID", workerID))
	defer c.Log.Info("[HarvestWorker] finished", field.Int("workerID", workerID))

	for {
		select {
		case <-ctx.Done():
			return

		case shop, ok := <-c.taskCh:
			if !ok {
				c.Log.Error("[HarvestWorker] received bad value from c.taskCh")
			}

			if err := c.processTask(ctx, shop); err != nil {
				c.Log.Error("err while process task", field.Int("workerID", workerID),
					field.Shop(shop.ID), field.Error(err))
			}
		}
	}
}

// processTask - re-sync the trailing window of one shop. Upserts make the
// periodic overlap with previous harvests convergent.
func (c *ControllerDaemon) processTask(ctx context.Context, shop model.Shop) error {
	taskCtx, cancel := context.WithTimeout(ctx, c.config.timeoutOneShopSync)
	defer cancel()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -c.config.lookbackDays)

	report, err := c.engine.Run(taskCtx, shop.ID, start, today)
	if err != nil {
		return err
	}

	if !report.Success {
		c.Log.Warn("[Harvester] run finished with partial failures",
			field.Shop(shop.ID), field.Int("errors", len(report.Errors)),
			field.Any("first_error", report.Errors[0]))
	}

	return nil
}
