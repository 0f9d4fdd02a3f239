// Copyright 2024-2025 ReviewHub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	goctx "context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/metrics"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

const schedulerLockName = "scheduler-tick"
const autoRetainJustification = "Automatically retained: review period ended without a decision"

const (
	PhaseMaterialize = "materialize"
	PhaseReminders   = "reminders"
	PhaseOverdue     = "overdue"
)

var defaultReminderDays = []int{7, 3, 1}

// SchedulerService runs the periodic tick: due-schedule materialization,
// reminders, then overdue handling, in that order. An overlapping tick in
// the same instance is a no-op via the in-process flag; across instances
// the DB lease lock keeps replicas from double-firing.
type SchedulerService interface {
	StartPeriodicTick(schedule string) error
	RunTick(ctx goctx.Context) error
	RunPhase(ctx goctx.Context, phase string) error
}

func NewSchedulerService(
	scheduledReviewRepository repository.ScheduledReviewRepository,
	campaignRepository repository.CampaignRepository,
	decisionService DecisionService,
	campaignService CampaignService,
	notificationService NotificationService,
	lockService LockService,
	reminderDays []int,
	lockLeaseSeconds int) SchedulerService {
	if len(reminderDays) == 0 {
		reminderDays = defaultReminderDays
	}
	var uniqueDays []int
	for _, day := range reminderDays {
		if !utils.SliceContainsInt(uniqueDays, day) {
			uniqueDays = append(uniqueDays, day)
		}
	}
	reminderDays = uniqueDays
	return &schedulerServiceImpl{
		scheduledReviewRepository: scheduledReviewRepository,
		campaignRepository:        campaignRepository,
		decisionService:           decisionService,
		campaignService:           campaignService,
		notificationService:       notificationService,
		lockService:               lockService,
		reminderDays:              reminderDays,
		lockLeaseSeconds:          lockLeaseSeconds,
		cron:                      cron.New(),
	}
}

type schedulerServiceImpl struct {
	scheduledReviewRepository repository.ScheduledReviewRepository
	campaignRepository        repository.CampaignRepository
	decisionService           DecisionService
	campaignService           CampaignService
	notificationService       NotificationService
	lockService               LockService
	reminderDays              []int
	lockLeaseSeconds          int
	cron                      *cron.Cron
	running                   atomic.Bool
}

func (s *schedulerServiceImpl) StartPeriodicTick(schedule string) error {
	if len(s.cron.Entries()) == 0 {
		location, err := time.LoadLocation("")
		if err != nil {
			return err
		}
		s.cron = cron.New(cron.WithLocation(location))
		s.cron.Start()
	}

	_, err := s.cron.AddJob(schedule, schedulerTickJob{scheduler: s})
	if err != nil {
		log.Warnf("[SchedulerService] Tick job wasn't added for schedule - %s. With error - %s", schedule, err)
		return err
	}
	log.Infof("[SchedulerService] Tick job was created with schedule - %s", schedule)
	return nil
}

type schedulerTickJob struct {
	scheduler *schedulerServiceImpl
}

func (j schedulerTickJob) Run() {
	err := utils.SafeSync(func() error {
		return j.scheduler.RunTick(goctx.Background())
	})
	if err != nil {
		log.Errorf("Scheduler tick failed: %v", err)
	}
}

func (s *schedulerServiceImpl) RunTick(ctx goctx.Context) error {
	return s.runGuarded(ctx, func(now time.Time) error {
		// Phase order is fixed; a fatal (persistence) error aborts the tick
		// and the work is retried on the next invocation.
		if err := s.materializeDueSchedules(now); err != nil {
			return err
		}
		if err := s.sendReminders(now); err != nil {
			return err
		}
		if err := s.handleOverdue(now); err != nil {
			return err
		}
		return nil
	})
}

func (s *schedulerServiceImpl) RunPhase(ctx goctx.Context, phase string) error {
	if !utils.SliceContains([]string{PhaseMaterialize, PhaseReminders, PhaseOverdue}, phase) {
		return &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.UnknownSchedulerPhase,
			Message: exception.UnknownSchedulerPhaseMsg,
			Params:  map[string]interface{}{"phase": phase},
		}
	}
	return s.runGuarded(ctx, func(now time.Time) error {
		switch phase {
		case PhaseMaterialize:
			return s.materializeDueSchedules(now)
		case PhaseReminders:
			return s.sendReminders(now)
		default:
			return s.handleOverdue(now)
		}
	})
}

func (s *schedulerServiceImpl) runGuarded(ctx goctx.Context, run func(now time.Time) error) error {
	if !s.running.CompareAndSwap(false, true) {
		log.Info("Scheduler tick skipped, previous tick is still running")
		return nil
	}
	defer s.running.Store(false)

	acquired, version, err := s.lockService.AcquireLock(ctx, schedulerLockName, s.lockLeaseSeconds)
	if err != nil {
		return err
	}
	if !acquired {
		log.Debug("Scheduler tick skipped, lock is held by another instance")
		return nil
	}
	defer func() {
		if err := s.lockService.ReleaseLock(ctx, schedulerLockName, version); err != nil {
			log.Warnf("Failed to release scheduler lock: %v", err)
		}
	}()

	return run(time.Now())
}

func (s *schedulerServiceImpl) materializeDueSchedules(now time.Time) error {
	metrics.SchedulerTicksTotal.WithLabelValues(PhaseMaterialize).Inc()
	due, err := s.scheduledReviewRepository.ListDue(now)
	if err != nil {
		return err
	}
	for _, schedule := range due {
		schedule := schedule
		err := utils.SafeSync(func() error {
			return s.materializeSchedule(&schedule, now)
		})
		if err != nil {
			// One schedule must not block the others.
			log.Errorf("Failed to materialize scheduled review %s: %v", schedule.Id, err)
		}
	}
	return nil
}

func (s *schedulerServiceImpl) materializeSchedule(schedule *entity.ScheduledReviewEntity, now time.Time) error {
	campaign := &entity.CampaignEntity{
		Id:                uuid.New().String(),
		Name:              fmt.Sprintf("%s - %s", schedule.Name, now.Format("Jan 2, 2006")),
		Scope:             schedule.Scope,
		Status:            string(view.CampaignStatusDraft),
		DueDate:           now.AddDate(0, 0, schedule.ReviewPeriodDays),
		CreatedAt:         now,
		CreatedBy:         schedule.CreatedBy,
		ScheduledReviewId: schedule.Id,
	}
	if err := s.campaignRepository.Create(campaign); err != nil {
		return err
	}

	nextRunAt, err := NextRun(schedule.Recurrence, now)
	if err != nil {
		return err
	}
	schedule.LastRunAt = now
	schedule.NextRunAt = nextRunAt
	schedule.LastCampaignId = campaign.Id
	if err := s.scheduledReviewRepository.Update(schedule); err != nil {
		return err
	}

	log.Infof("Scheduled review %s spawned campaign %s, next run at %s", schedule.Id, campaign.Id, nextRunAt)
	return s.notificationService.Emit(schedule.CreatedBy, campaign.Id, view.NotificationScheduleTriggered,
		"Scheduled access review started",
		fmt.Sprintf("Campaign '%s' was created from scheduled review '%s'", campaign.Name, schedule.Name))
}

func (s *schedulerServiceImpl) sendReminders(now time.Time) error {
	metrics.SchedulerTicksTotal.WithLabelValues(PhaseReminders).Inc()
	// Schedules may carry their own reminder offsets which override the
	// service-wide set for the campaigns they spawned.
	schedules, err := s.scheduledReviewRepository.List()
	if err != nil {
		return err
	}
	scheduleDays := map[string][]int{}
	offsets := append([]int{}, s.reminderDays...)
	for _, schedule := range schedules {
		if len(schedule.ReminderDays) == 0 {
			continue
		}
		scheduleDays[schedule.Id] = schedule.ReminderDays
		for _, day := range schedule.ReminderDays {
			if !utils.SliceContainsInt(offsets, day) {
				offsets = append(offsets, day)
			}
		}
	}
	for _, offset := range offsets {
		dayStart := utils.StartOfDay(now.AddDate(0, 0, offset))
		dayEnd := dayStart.AddDate(0, 0, 1)
		campaigns, err := s.campaignRepository.ListInReviewDueBetween(dayStart, dayEnd)
		if err != nil {
			return err
		}
		for _, campaign := range campaigns {
			effective := s.reminderDays
			if days, ok := scheduleDays[campaign.ScheduledReviewId]; ok {
				effective = days
			}
			if !utils.SliceContainsInt(effective, offset) {
				continue
			}
			exists, err := s.notificationService.ExistsForCampaignToday(campaign.Id, view.NotificationCampaignDueSoon, now)
			if err != nil {
				log.Errorf("Failed to check reminder dedup for campaign %s: %v", campaign.Id, err)
				continue
			}
			if exists {
				continue
			}
			err = s.notificationService.Emit(campaign.CreatedBy, campaign.Id, view.NotificationCampaignDueSoon,
				"Access review due soon",
				fmt.Sprintf("Campaign '%s' is due in %d day(s)", campaign.Name, offset))
			if err != nil {
				log.Errorf("Failed to emit reminder for campaign %s: %v", campaign.Id, err)
			}
		}
	}
	return nil
}

func (s *schedulerServiceImpl) handleOverdue(now time.Time) error {
	metrics.SchedulerTicksTotal.WithLabelValues(PhaseOverdue).Inc()
	overdue, err := s.campaignRepository.ListInReviewOverdue(now)
	if err != nil {
		return err
	}
	for _, campaign := range overdue {
		campaign := campaign
		err := utils.SafeSync(func() error {
			return s.handleOverdueCampaign(&campaign)
		})
		if err != nil {
			log.Errorf("Failed to process overdue campaign %s: %v", campaign.Id, err)
		}
	}
	return nil
}

func (s *schedulerServiceImpl) handleOverdueCampaign(campaign *entity.CampaignEntity) error {
	exists, err := s.notificationService.ExistsForCampaign(campaign.Id, view.NotificationCampaignOverdue)
	if err != nil {
		return err
	}
	if !exists {
		err = s.notificationService.Emit(campaign.CreatedBy, campaign.Id, view.NotificationCampaignOverdue,
			"Access review overdue",
			fmt.Sprintf("Campaign '%s' passed its due date with items still undecided", campaign.Name))
		if err != nil {
			return err
		}
	}

	if campaign.ScheduledReviewId == "" {
		return nil
	}
	schedule, err := s.scheduledReviewRepository.Get(campaign.ScheduledReviewId)
	if err != nil {
		return err
	}
	if schedule == nil || !schedule.AutoExecute {
		return nil
	}

	// Auto-resolution never removes access: undecided items are retained,
	// removal without human sign-off is the riskier failure mode.
	systemCtx := context.CreateSystemContext()
	if _, err := s.decisionService.BulkRetainAll(systemCtx, campaign.Id, autoRetainJustification); err != nil {
		return err
	}
	completed, err := s.campaignService.CompleteIfFullyDecided(campaign.Id)
	if err != nil {
		return err
	}
	if !completed {
		return nil
	}
	log.Infof("Overdue campaign %s auto-resolved by schedule %s", campaign.Id, schedule.Id)
	return s.notificationService.Emit(campaign.CreatedBy, campaign.Id, view.NotificationExecutionComplete,
		"Access review auto-completed",
		fmt.Sprintf("Overdue campaign '%s' was completed automatically, undecided items were retained", campaign.Name))
}
