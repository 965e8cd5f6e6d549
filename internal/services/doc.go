// Package services implements littlescreen's domain operations.
//
// Services sit between the HTTP handlers in package web and the SQLite repositories. They take the
// caller's decoded [session.Claims] as an explicit argument and return errors from package shared so
// the web layer can map them onto status codes.
//
// # Upstream services
//
// [APIService] is a thin buffered HTTP client. It backs:
//   - [AuthService], a proxy for the upstream issuer that captures its "token" cookie
//   - [CatalogService], which lists videos best-rated first and degrades to an empty list
//   - [APIMailer], a transactional e-mail API client authenticated with an oauth2 static token
//   - [HTTPClassifier], which asks a hosted model whether content suits young children
//
// # Playlists
//
// [PlaylistService] checks ownership through [VerifyOwnership] before every write. A playlist that
// exists but belongs to someone else is reported as [shared.ErrNotFound].
//
// # Notifications
//
// [FeedbackService] enqueues a [CheckIn] after a parent's first dashboard check-in in a day.
// The queue is an [Enqueuer] (a tasks.Dispatcher in production) whose workers call [CheckInSender.Send].
// A full queue drops the job and the submission still succeeds.
//
// # Errors
//   - [shared.ErrNotAuthenticated] : no session
//   - [shared.ErrInvalidInput] : validation, as a [shared.FieldError]
//   - [shared.ErrNotFound] : missing or not owned
//   - [shared.ErrUpstream] : relayable upstream failure, as a [shared.UpstreamError]
//   - [shared.ErrPersistence] : store failure
package services
