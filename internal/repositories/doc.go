// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository owns one aggregate and takes a [context.Context] on every call so request
// cancellation reaches the driver.
//
// Key Implementations:
//   - [PlaylistRepository] : Playlists with their tags and append-only ordered items
//   - [FeedbackRepository] : Feedback entries, dedup window lookups, digest selection
//   - [CommunityRepository] : Community posts, newest first
//   - [FollowRepository] : Follower to username edges
//   - [ConcernRepository] : Per-parent screen-time concerns with full replacement
//   - [ChannelRepository] : Approved channel reference list
//   - [ContentRatingRepository] : Screening verdicts with fuzzy title search
//
// Sequence numbers give playlists a stable creation order independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
// Missing rows are reported as [shared.ErrNotFound].
package repositories
