// Package worker runs the recurring-charge roller: a background loop that
// advances past-due recurring upcoming charges to their next monthly date.
package worker

import (
	"context"
	"sync"
	"time"

	"finance-dashboard/api/events"
	"finance-dashboard/api/logger"
	"finance-dashboard/api/models"
	"finance-dashboard/api/store"

	"go.uber.org/zap"
)

type Roller struct {
	store    store.Store
	broker   *events.Broker
	interval time.Duration

	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	// Now is swappable so tests can pin the clock.
	Now func() time.Time
}

func NewRoller(st store.Store, broker *events.Broker, interval time.Duration) *Roller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Roller{
		store:      st,
		broker:     broker,
		interval:   interval,
		ctx:        ctx,
		cancelFunc: cancel,
		Now:        time.Now,
	}
}

func (r *Roller) Start() {
	logger.Get().Info("Starting recurring-charge roller",
		zap.Duration("interval", r.interval))
	r.wg.Add(1)
	go r.run()
}

func (r *Roller) Stop() {
	logger.Get().Info("Stopping recurring-charge roller")
	r.cancelFunc()
	r.wg.Wait()
}

func (r *Roller) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.rollAll()
	for {
		select {
		case <-ticker.C:
			r.rollAll()
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Roller) rollAll() {
	userIDs, err := r.store.AllUserIDs(r.ctx)
	if err != nil {
		logger.Get().Error("error listing users", zap.Error(err))
		return
	}

	for _, userID := range userIDs {
		rolled, err := r.RollUser(r.ctx, userID)
		if err != nil {
			logger.Get().Error("error rolling recurring charges",
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		if rolled > 0 {
			logger.Get().Info("rolled recurring charges",
				zap.String("user_id", userID),
				zap.Int("count", rolled))
			r.broker.Publish(userID, events.Event{
				Type: events.TypeDashboardUpdated,
				List: models.ListUpcomingCharges,
			})
		}
	}
}

// RollUser advances every past-due recurring charge of one user to its next
// monthly date and returns how many it moved.
func (r *Roller) RollUser(ctx context.Context, userID string) (int, error) {
	doc, err := r.store.Find(ctx, userID)
	if err != nil {
		return 0, err
	}

	today := r.Now().UTC().Truncate(24 * time.Hour)
	rolled := 0
	for _, charge := range doc.UpcomingCharges {
		if !charge.Recurring {
			continue
		}
		next, moved := nextDate(charge.Date, today)
		if !moved {
			continue
		}
		charge.Date = next
		update := charge
		if _, err := r.store.ReplaceListEntry(ctx, userID, models.ListUpcomingCharges, charge.ID, &update); err != nil {
			return rolled, err
		}
		rolled++
	}
	return rolled, nil
}

// nextDate moves a YYYY-MM-DD date forward by whole months until it lies in
// the future. Unparseable dates stay put.
func nextDate(date string, today time.Time) (string, bool) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date, false
	}
	if d.After(today) {
		return date, false
	}
	for !d.After(today) {
		d = d.AddDate(0, 1, 0)
	}
	return d.Format("2006-01-02"), true
}
