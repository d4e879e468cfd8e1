// internal/service/recommendations.go
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/remaimber-it/examprep/internal/advisor"
	"github.com/remaimber-it/examprep/internal/store"
	"github.com/remaimber-it/examprep/internal/worker"
)

// recommendationOutcome is what a worker hands back for persistence.
type recommendationOutcome struct {
	rec       advisor.Recommendation
	oracleErr error
}

// RecommendationService produces study advice for completed sessions in the
// background. The oracle (usually an LLM) is optional: any failure falls back
// to the deterministic local advisor, so every completed session ends up
// with a stored recommendation.
type RecommendationService struct {
	store    store.RecommendationStore
	oracle   advisor.Advisor // nil = local advice only
	fallback advisor.Advisor
	timeout  time.Duration
	logger   *slog.Logger
	pool     *worker.Pool[recommendationOutcome]
	done     chan struct{}
	now      func() time.Time

	mu      sync.Mutex
	pending map[string]*pendingJobs // sessionID → in-flight jobs
}

type pendingJobs struct {
	wg sync.WaitGroup
	n  int
}

func NewRecommendationService(s store.RecommendationStore, oracle advisor.Advisor, workers int, timeout time.Duration, logger *slog.Logger) *RecommendationService {
	rs := &RecommendationService{
		store:    s,
		oracle:   oracle,
		fallback: advisor.LocalAdvisor{},
		timeout:  timeout,
		logger:   logger,
		pool:     worker.NewPool[recommendationOutcome](workers, workers*4),
		done:     make(chan struct{}),
		now:      time.Now,
		pending:  make(map[string]*pendingJobs),
	}
	go rs.collect()
	return rs
}

// Submit queues advice generation for a completed session.
func (rs *RecommendationService) Submit(sessionID string, summary advisor.Summary) {
	rs.track(sessionID)

	err := rs.pool.Submit(sessionID, func() recommendationOutcome {
		return rs.recommend(sessionID, summary)
	})
	if err != nil {
		// Pool is shutting down; store local advice inline.
		rs.logger.Warn("recommendation pool closed, using local advice", "session_id", sessionID)
		rs.persist(sessionID, rs.localOutcome(summary, err))
		rs.finish(sessionID)
	}
}

// WaitForSession blocks until queued advice for the session is stored or ctx
// is done.
func (rs *RecommendationService) WaitForSession(ctx context.Context, sessionID string) error {
	rs.mu.Lock()
	p, ok := rs.pending[sessionID]
	rs.mu.Unlock()
	if !ok {
		return nil
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns the stored advice, waiting for a pending job first.
func (rs *RecommendationService) Get(ctx context.Context, sessionID string) (*store.StoredRecommendation, error) {
	if err := rs.WaitForSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return rs.store.GetRecommendation(ctx, sessionID)
}

// Close drains queued jobs and stops the collector.
func (rs *RecommendationService) Close() {
	rs.pool.Close()
	<-rs.done
}

func (rs *RecommendationService) track(sessionID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	p, ok := rs.pending[sessionID]
	if !ok {
		p = &pendingJobs{}
		rs.pending[sessionID] = p
	}
	p.n++
	p.wg.Add(1)
}

func (rs *RecommendationService) finish(sessionID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	p, ok := rs.pending[sessionID]
	if !ok {
		return
	}
	p.n--
	if p.n == 0 {
		delete(rs.pending, sessionID)
	}
	p.wg.Done()
}

// recommend runs on a pool worker. It uses context.Background because the
// originating HTTP request has usually finished by now.
func (rs *RecommendationService) recommend(sessionID string, summary advisor.Summary) recommendationOutcome {
	if rs.oracle == nil {
		return rs.localOutcome(summary, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()

	rec, err := rs.oracle.Recommend(ctx, summary)
	if err != nil {
		return rs.localOutcome(summary, err)
	}
	return recommendationOutcome{rec: rec}
}

func (rs *RecommendationService) localOutcome(summary advisor.Summary, cause error) recommendationOutcome {
	rec, _ := rs.fallback.Recommend(context.Background(), summary)
	return recommendationOutcome{rec: rec, oracleErr: cause}
}

// collect persists worker results as they arrive.
func (rs *RecommendationService) collect() {
	defer close(rs.done)
	for res := range rs.pool.Results() {
		rs.persist(res.JobID, res.Output)
		rs.finish(res.JobID)
	}
}

func (rs *RecommendationService) persist(sessionID string, out recommendationOutcome) {
	if out.oracleErr != nil {
		rs.logger.Warn("recommendation oracle failed, using local advice",
			"session_id", sessionID,
			"error", out.oracleErr,
		)
	}

	err := rs.store.SaveRecommendation(context.Background(), store.StoredRecommendation{
		SessionID:   sessionID,
		Text:        out.rec.Text,
		FocusTopics: out.rec.FocusTopics,
		Source:      out.rec.Source,
		CreatedAt:   rs.now().UTC(),
	})
	if err != nil {
		rs.logger.Error("failed to save recommendation",
			"session_id", sessionID,
			"error", err,
		)
	}
}
