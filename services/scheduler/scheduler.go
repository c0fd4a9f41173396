package schedulersvc

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/deepak-dev-mindmanthan/college-management-backend-sub001/core"
)

// SystemUserID identifies the scheduler as the caller of the jobs it runs.
const SystemUserID = "system:scheduler"

// DraftRefresher regenerates the unpublished transcripts of every tenant.
type DraftRefresher interface {
	RefreshAllDrafts(ctx context.Context, userID string) (int, error)
}

type Scheduler struct {
	cron      *cron.Cron
	refresher DraftRefresher
	logger    core.Logger
	timeout   time.Duration
}

func NewScheduler(refresher DraftRefresher, logger core.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		refresher: refresher,
		logger:    logger,
		timeout:   10 * time.Minute,
	}
}

// ScheduleDraftRefresh runs the draft refresh on spec. An empty spec schedules nothing.
func (s *Scheduler) ScheduleDraftRefresh(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.refreshDrafts); err != nil {
		return errors.Wrapf(err, "scheduling draft refresh %q", spec)
	}
	s.logger.Info(fmt.Sprintf("draft refresh scheduled: %q", spec))
	return nil
}

func (s *Scheduler) refreshDrafts() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.refresher.RefreshAllDrafts(ctx, SystemUserID)
	if err != nil {
		s.logger.Error(fmt.Sprintf("refreshing drafts: %v", err), err)
		return
	}
	s.logger.Info(fmt.Sprintf("refreshed %d draft transcripts", n))
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops scheduling jobs and waits for the running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
