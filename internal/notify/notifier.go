// Package notify e-mails the trending products report to registered users.
package notify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"retail-insights/internal/config"
	"retail-insights/internal/domain"
	"retail-insights/internal/metrics"
	"retail-insights/internal/model"
	"retail-insights/pkg/logger"
)

// ReportSource builds the trending report.
type ReportSource interface {
	Trending(ctx context.Context) (*model.TrendingReport, error)
}

// UserLister lists every registered user.
type UserLister interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}

// Result summarizes one notification run.
type Result struct {
	Top        string `json:"top"`
	Recipients int    `json:"recipients"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
}

type Notifier struct {
	reports ReportSource
	users   UserLister
	mailer  Mailer
	limiter *rate.Limiter
	retry   model.RetryConfig
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewNotifier(reports ReportSource, users UserLister, mailer Mailer, cfg config.MailConfig) *Notifier {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout * 10
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &Notifier{
		reports: reports,
		users:   users,
		mailer:  mailer,
		limiter: rate.NewLimiter(limit, burst),
		retry:   cfg.Retry,
		timeout: timeout,
	}
}

// NotifyTrending sends the report to every user. A failed recipient does not
// stop the others; all failures are returned together as a side effect error.
func (n *Notifier) NotifyTrending(ctx context.Context) (*Result, error) {
	log := logger.FromContext(ctx)

	report, err := n.reports.Trending(ctx)
	if err != nil {
		return nil, domain.NewSideEffectError("trending notification", err)
	}
	users, err := n.users.ListUsers(ctx)
	if err != nil {
		return nil, domain.NewSideEffectError("trending notification", err)
	}

	result := &Result{Top: report.Top.Name, Recipients: len(users)}
	var errs []error
	for _, u := range users {
		html, err := RenderReport(u.Name, report)
		if err != nil {
			return result, domain.NewSideEffectError("trending notification", fmt.Errorf("render report: %w", err))
		}

		msg := Message{To: u.Email, ToName: u.Name, Subject: ReportSubject, HTML: html}
		if err := n.send(ctx, msg); err != nil {
			result.Failed++
			metrics.RecordNotification("failed")
			errs = append(errs, err)
			log.Warn("notification not delivered", "user_id", u.ID, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		result.Sent++
		metrics.RecordNotification("sent")
	}

	log.Info("trending notification finished",
		"top", result.Top,
		"recipients", result.Recipients,
		"sent", result.Sent,
		"failed", result.Failed,
	)
	if len(errs) > 0 {
		return result, domain.NewSideEffectError("trending notification", errors.Join(errs...))
	}
	return result, nil
}

// NotifyAsync runs NotifyTrending in the background, detached from the
// cancellation of ctx. Failures are logged and counted only. It reports false
// once Wait has been called.
func (n *Notifier) NotifyAsync(ctx context.Context) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		logger.FromContext(ctx).Warn("trending notification skipped: shutting down")
		return false
	}

	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()

		if _, err := n.NotifyTrending(detached); err != nil {
			metrics.RecordError("notify", "side_effect")
			logger.FromContext(detached).Error("trending notification failed", "error", err)
		}
	}()
	return true
}

// Wait stops new background notifications and blocks until the running ones
// finish or ctx is done.
func (n *Notifier) Wait(ctx context.Context) error {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// send delivers msg with exponential backoff between attempts.
func (n *Notifier) send(ctx context.Context, msg Message) error {
	var lastErr error
	for attempt := 1; attempt <= n.retry.MaxRetries+1; attempt++ {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}

		lastErr = n.mailer.Send(ctx, msg)
		if lastErr == nil {
			return nil
		}
		if attempt > n.retry.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(n.retry, attempt)):
		}
	}
	return lastErr
}

// backoff is InitialDelay * BackoffFactor^(attempt-1), capped at MaxDelay.
func backoff(cfg model.RetryConfig, attempt int) time.Duration {
	factor := cfg.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(factor, float64(attempt-1)))
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}
