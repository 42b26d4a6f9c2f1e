package service

import (
	"context"
	"fmt"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/melsoft/timegrid/internal/dto"
	"github.com/melsoft/timegrid/internal/models"
	"github.com/melsoft/timegrid/internal/timetable"
	appErrors "github.com/melsoft/timegrid/pkg/errors"
	"github.com/melsoft/timegrid/pkg/jobs"
)

const (
	solveLockKey           = "timegrid:solve-lock"
	conflictReportsCacheKey = "timegrid:conflict-reports"
)

// releaseScript frees the solve lock only if it still holds the token that
// acquired it, so a worker whose lock already expired can't release a lock
// a different replica since acquired.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// ConflictReportReader reads the conflict reports left by the last solve
// attempt (spec.md §4.5), independent of the write-only
// timetable.ConflictReportStore the Search Driver depends on.
type ConflictReportReader interface {
	List(ctx context.Context) ([]models.ConflictReport, error)
}

type generateJob struct {
	timeLimitSeconds int
	resultCh         chan generateResult
}

type generateResult struct {
	result *timetable.Result
	err    error
}

// TimetableService is the HTTP-facing wrapper around the solver core
// (internal/timetable). It adds exactly what TRANSPORT WIRING asks for on
// top of the Search Driver itself: a Redis-backed distributed lock so
// concurrent generate() calls across gateway replicas fail fast with 409
// instead of racing the solver (spec.md §5), and a single-worker
// pkg/jobs.Queue so the solve itself always runs on one goroutine even
// though HTTP handlers are concurrent.
type TimetableService struct {
	driver    *timetable.Driver
	validator *timetable.EditValidator

	slotConfig timetable.SchoolConfigStore
	timeSlots  timetable.TimeSlotStore

	conflicts ConflictReportReader

	redis    *redis.Client
	lockTTL  time.Duration
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	validate *govalidator.Validate

	queue *jobs.Queue
}

// NewTimetableService constructs a TimetableService. A nil logger defaults
// to a no-op logger, matching the rest of the service layer.
func NewTimetableService(
	driver *timetable.Driver,
	validator *timetable.EditValidator,
	slotConfig timetable.SchoolConfigStore,
	timeSlots timetable.TimeSlotStore,
	conflicts ConflictReportReader,
	redisClient *redis.Client,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
	lockTTL time.Duration,
) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}

	svc := &TimetableService{
		driver:     driver,
		validator:  validator,
		slotConfig: slotConfig,
		timeSlots:  timeSlots,
		conflicts:  conflicts,
		redis:      redisClient,
		lockTTL:    lockTTL,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		validate:   govalidator.New(),
	}
	svc.queue = jobs.NewQueue("timetable-generate", svc.runGenerate, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 1,
		MaxRetries: 1,
		RetryDelay: time.Second,
		Logger:     logger,
	})
	return svc
}

// Start begins the underlying generate queue's worker. Must be called
// before Generate.
func (s *TimetableService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the generate queue.
func (s *TimetableService) Stop() {
	s.queue.Stop()
}

// GenerateSlots implements spec.md §6's generate_slots() trigger.
func (s *TimetableService) GenerateSlots(ctx context.Context) ([]models.TimeSlot, error) {
	return timetable.GenerateSlots(ctx, s.slotConfig, s.timeSlots)
}

// Generate implements spec.md §4.4's generate(time_limit_seconds),
// serialized by a Redis NX lock across replicas and by the single-worker
// queue within this process. A concurrent caller that observes the lock
// already held gets ErrConflict (409) rather than waiting behind the
// in-flight solve.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateRequest) (*timetable.Result, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate request")
	}
	if s.redis == nil {
		return nil, appErrors.Wrap(fmt.Errorf("redis client not configured"), "INTERNAL_ERROR", 500, "solve lock unavailable")
	}

	timeLimitSeconds := req.TimeLimitSeconds
	token := uuid.NewString()
	acquired, err := s.redis.SetNX(ctx, solveLockKey, token, s.lockTTL).Result()
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to acquire solve lock")
	}
	if !acquired {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a timetable generation is already in progress")
	}
	defer s.releaseLock(token)

	resultCh := make(chan generateResult, 1)
	job := jobs.Job{
		ID:      token,
		Type:    "generate",
		Payload: generateJob{timeLimitSeconds: timeLimitSeconds, resultCh: resultCh},
	}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, "INTERNAL_ERROR", 500, "failed to enqueue solve job")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		s.recordSolveMetrics(res.result)
		s.cacheConflictReports(res.result.ConflictReports)
		return res.result, nil
	}
}

// runGenerate is the queue Handler. Solve errors are conveyed to the waiting
// caller over the job's result channel instead of through the queue's own
// retry machinery, so it returns nil for them; it returns an error only for
// a job whose payload is not a generateJob.
func (s *TimetableService) runGenerate(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(generateJob)
	if !ok {
		return fmt.Errorf("unexpected payload type for generate job %s", job.ID)
	}

	start := time.Now()
	result, err := s.driver.Solve(ctx, payload.timeLimitSeconds)
	duration := time.Since(start)

	status := "error"
	candidates := 0
	if result != nil {
		status = result.Status.String()
		candidates = result.CandidateCount
	}
	if s.metrics != nil {
		s.metrics.ObserveSolve(status, duration, candidates)
	}

	payload.resultCh <- generateResult{result: result, err: err}
	return nil
}

func (s *TimetableService) releaseLock(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, s.redis, []string{solveLockKey}, token).Err(); err != nil && err != redis.Nil {
		s.logger.Sugar().Warnw("failed to release solve lock", "error", err)
	}
}

func (s *TimetableService) recordSolveMetrics(result *timetable.Result) {
	if s.metrics == nil || result == nil {
		return
	}
	severityCounts := make(map[string]int)
	for _, r := range result.ConflictReports {
		severityCounts[string(r.Severity)]++
	}
	s.metrics.ObserveConflictReports(severityCounts)
}

// cacheConflictReports refreshes the short-TTL Redis cache GET
// /timetable/conflicts reads from, so repeat polling doesn't hit the
// database between solves. A nil batch means the solve left the stored
// reports untouched, so the cache is left as it is too.
func (s *TimetableService) cacheConflictReports(reports []models.ConflictReport) {
	if s.cache == nil || !s.cache.Enabled() || reports == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, conflictReportsCacheKey, reports, s.lockTTL); err != nil {
		s.logger.Sugar().Warnw("failed to cache conflict reports", "error", err)
	}
}

// ValidateMove implements spec.md §4.7's validate_move(...).
func (s *TimetableService) ValidateMove(ctx context.Context, entryID string, req dto.ValidateMoveRequest) ([]string, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move request")
	}
	return s.validator.Validate(ctx, timetable.MoveRequest{
		EntryID:   entryID,
		NewSlotID: req.NewSlotID,
		NewRoomID: req.NewRoomID,
	})
}

// Conflicts returns the last persisted ConflictReports, preferring the
// cache populated by the most recent Generate call.
func (s *TimetableService) Conflicts(ctx context.Context) ([]models.ConflictReport, error) {
	if s.cache != nil && s.cache.Enabled() {
		var cached []models.ConflictReport
		if hit, err := s.cache.Get(ctx, conflictReportsCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}
	reports, err := s.conflicts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "STORAGE_ERROR", 500, "failed to load conflict reports")
	}
	return reports, nil
}
