// Package models defines the domain entities and request payloads for littlescreen.
//
// The package contains three categories of types:
//
// 1. Persistent entities, stored in SQLite by the repositories package
//   - [Playlist] : A parent's named collection of videos with tags
//   - [PlaylistItem] : One video inside a playlist, ordered by position
//   - [Feedback] : A rating or comment captured at a product trigger point
//   - [CommunityPost] : A "what worked" testimonial shared with other parents
//   - [ApprovedChannel] : Reference list of verified channels
//   - [ContentRating] : Screening verdicts keyed by title and source
//
// 2. Request payloads, validated before any store access
//   - [PlaylistInput], [PlaylistPatch], [ItemInput], [FeedbackInput], [PostInput]
//
// 3. Upstream views, owned by external services
//   - [Video] : Catalog entry served by the upstream catalog API
//   - [ScreeningResult] : Classifier verdict for a title
//
// Payloads implement [Validator]; validation failures are [shared.FieldError] values.
package models
