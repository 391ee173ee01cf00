package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"

	"retail-insights/internal/auth"
	"retail-insights/internal/config"
	"retail-insights/internal/insights"
	"retail-insights/internal/notify"
	"retail-insights/internal/pipeline"
	"retail-insights/internal/store"
	"retail-insights/internal/upload"
)

// app holds the wired services shared by every command.
type app struct {
	store     *store.Store
	insights  *insights.Service
	auth      *auth.Service
	installer *upload.Installer
	notifier  *notify.Notifier
}

func newApp(cfg *config.Config) (*app, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	insightsSvc := insights.NewService(cfg.Sources, cfg.Insights, pipeline.NewRandomFiller())

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.Mail.Enabled {
		mailer = notify.NewSMTPMailer(cfg.Mail)
	}

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	return &app{
		store:     st,
		insights:  insightsSvc,
		auth:      auth.NewService(st, tokens, bcrypt.DefaultCost),
		installer: upload.NewInstaller(cfg.Sources, st),
		notifier:  notify.NewNotifier(insightsSvc, st, mailer, cfg.Mail),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
