package services

import (
	"context"
	"fmt"
	"time"

	"backend_trainerhub/config"
	"backend_trainerhub/logging"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SchedulerJobTimeout ограничивает время одного запуска задания
const SchedulerJobTimeout = 10 * time.Minute

// SchedulerService запускает регенерацию задач и сверку журнала по расписанию
type SchedulerService struct {
	cfg        config.SchedulerConfig
	generator  *TaskGeneratorService
	reconciler *LedgerReconciler
	cron       *cron.Cron
	logger     zerolog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService
func NewSchedulerService(cfg config.SchedulerConfig, generator *TaskGeneratorService, reconciler *LedgerReconciler) *SchedulerService {
	return &SchedulerService{
		cfg:        cfg,
		generator:  generator,
		reconciler: reconciler,
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:     logging.Component("scheduler"),
	}
}

// Start регистрирует задания и запускает планировщик
func (s *SchedulerService) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("scheduler disabled")
		return nil
	}

	if err := s.addJob("regenerate", s.cfg.RegenerateCron, s.runRegenerate); err != nil {
		return err
	}
	if err := s.addJob("reconcile", s.cfg.ReconcileCron, s.runReconcile); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
	return nil
}

// Stop останавливает планировщик и ждет завершения текущих заданий
func (s *SchedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

func (s *SchedulerService) addJob(name, spec string, run func(context.Context)) error {
	if spec == "" {
		s.logger.Warn().Str("job", name).Msg("empty cron expression, job skipped")
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), SchedulerJobTimeout)
		defer cancel()
		run(ctx)
	})
	if err != nil {
		return fmt.Errorf("не удалось добавить задание %s (%s): %w", name, spec, err)
	}
	s.logger.Info().Str("job", name).Str("cron", spec).Msg("scheduled job added")
	return nil
}

func (s *SchedulerService) runRegenerate(ctx context.Context) {
	started := time.Now()
	created, err := s.generator.RegenerateAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled regeneration failed")
		return
	}
	s.logger.Info().Int("created", created).Dur("took", time.Since(started)).Msg("scheduled regeneration completed")
}

func (s *SchedulerService) runReconcile(ctx context.Context) {
	if s.reconciler == nil {
		return
	}
	if _, err := s.reconciler.Sweep(ctx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled ledger sweep failed")
	}
}
