package handler

import (
	"context"
	"io"
	"time"

	"retail-insights/internal/auth"
	"retail-insights/internal/model"
)

// InsightsService builds the data views.
type InsightsService interface {
	Products(ctx context.Context, limit int) ([]model.SummaryRecord, error)
	Pricing(ctx context.Context) ([]model.PricingRecord, error)
	Marketing(ctx context.Context) ([]model.MarketingRecord, error)
	Trending(ctx context.Context) (*model.TrendingReport, error)
}

// AuthService registers users and resolves bearer tokens.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Installer puts uploaded files in place.
type Installer interface {
	Install(ctx context.Context, requested, originalName string, r io.Reader) (*model.Upload, error)
}

// Notifier starts the trending e-mail in the background. It reports false when
// the job was not queued.
type Notifier interface {
	NotifyAsync(ctx context.Context) bool
}

// UploadLog lists recent uploads.
type UploadLog interface {
	ListUploads(ctx context.Context, limit int) ([]model.Upload, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the /api routes.
type Handler struct {
	Insights       InsightsService
	Auth           AuthService
	Installer      Installer
	Notifier       Notifier
	Uploads        UploadLog
	DB             Pinger
	Validator      *Validator
	MaxUploadBytes int64
	StartedAt      time.Time
}

// Deps are the collaborators of a Handler.
type Deps struct {
	Insights       InsightsService
	Auth           AuthService
	Installer      Installer
	Notifier       Notifier
	Uploads        UploadLog
	DB             Pinger
	MaxUploadBytes int64
}

func New(deps Deps) *Handler {
	maxUpload := deps.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	return &Handler{
		Insights:       deps.Insights,
		Auth:           deps.Auth,
		Installer:      deps.Installer,
		Notifier:       deps.Notifier,
		Uploads:        deps.Uploads,
		DB:             deps.DB,
		Validator:      NewValidator(),
		MaxUploadBytes: maxUpload,
		StartedAt:      time.Now(),
	}
}
