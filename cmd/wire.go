package main

import (
	"database/sql"

	"github.com/Mohakgarg5/littlescreen-v2/internal/repositories"
	"github.com/Mohakgarg5/littlescreen-v2/internal/services"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"github.com/Mohakgarg5/littlescreen-v2/internal/tasks"
	"github.com/Mohakgarg5/littlescreen-v2/internal/web"
)

// classifier returns the configured screening classifier, or nil when none is configured.
func (r *Runner) classifier() services.Classifier {
	cfg := r.config.Classifier
	if cfg.BaseURL == "" {
		return nil
	}
	client := services.NewBearerClient(cfg.APIKey, seconds(r.config.Upstream.TimeoutSeconds, 10))
	return services.NewHTTPClassifier(services.NewAPIService(cfg.BaseURL, client), cfg.Model)
}

// adminTo falls back to the sender address when no admin recipient is configured.
func (r *Runner) adminTo() string {
	if r.config.Mail.AdminTo != "" {
		return r.config.Mail.AdminTo
	}
	return r.config.Mail.From
}

func (r *Runner) adminService(db *sql.DB) *services.AdminService {
	logger := shared.WithLogger(r.logger, "component", "admin")
	return services.NewAdminService(services.AdminDeps{
		Channels:   repositories.NewChannelRepository(db),
		Ratings:    repositories.NewContentRatingRepository(db),
		Feedback:   repositories.NewFeedbackRepository(db),
		Classifier: r.classifier(),
		Mailer:     services.NewMailer(r.config.Mail, logger),
		AdminTo:    r.adminTo(),
	}, logger)
}

// buildApp wires the HTTP application over db. The returned dispatcher must be closed on shutdown.
func (r *Runner) buildApp(db *sql.DB) (*web.App, *tasks.Dispatcher[services.CheckIn]) {
	api := services.NewAPIService(r.config.Upstream.BaseURL, r.upstreamClient())

	playlists := repositories.NewPlaylistRepository(db)
	feedback := repositories.NewFeedbackRepository(db)
	concerns := repositories.NewConcernRepository(db)
	channels := repositories.NewChannelRepository(db)
	ratings := repositories.NewContentRatingRepository(db)

	notifyLogger := shared.WithLogger(r.logger, "component", "notifications")
	sender := services.NewCheckInSender(playlists, concerns, feedback, services.NewMailer(r.config.Mail, notifyLogger), notifyLogger)
	dispatcher := tasks.NewDispatcher[services.CheckIn](sender.Send, tasks.DispatcherOpts{
		Workers:   r.config.Mail.Workers,
		QueueSize: r.config.Mail.QueueSize,
		RateLimit: r.config.Mail.RatePerSecond,
	}, notifyLogger)

	app := web.NewApp(web.Deps{
		Auth:      services.NewAuthService(api, shared.WithLogger(r.logger, "component", "auth")),
		Catalog:   services.NewCatalogService(api, shared.WithLogger(r.logger, "component", "catalog")),
		Playlists: services.NewPlaylistService(playlists, shared.WithLogger(r.logger, "component", "playlists")),
		Feedback:  services.NewFeedbackService(feedback, dispatcher, shared.WithLogger(r.logger, "component", "feedback")),
		Reference: services.NewReferenceService(channels, ratings),
		Community: services.NewCommunityService(repositories.NewCommunityRepository(db)),
		Follows:   services.NewFollowService(repositories.NewFollowRepository(db)),
		Concerns:  services.NewConcernService(concerns),
		Admin:     r.adminService(db),
		DB:        db,

		Codec:       session.NewCodec(),
		Secure:      r.config.Server.Production(),
		AdminSecret: r.config.Admin.Secret,
	}, shared.WithLogger(r.logger, "component", "web"))

	return app, dispatcher
}
