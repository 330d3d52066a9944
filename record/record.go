// Package record defines the common types for harvested social media records.
package record

import (
	"errors"
	"time"
)

// Common errors returned by pipeline packages.
var (
	ErrInvalidMergeFloor = errors.New("merge floor must be between 0 and 100")
)

// Profile represents one harvested profile on one platform.
// Records are created by external fetchers and are read-only within
// the analysis pipeline. The (Platform, Username) pair identifies a
// record within a single ingestion batch.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	// Identity
	Platform string // Platform name: "instagram", "twitter", "mastodon", etc.
	Username string // Handle/username (without @ prefix)

	// Core profile data
	DisplayName string // Display name, may be empty
	Bio         string // Profile bio/description, may be empty

	// Audience counters
	Followers int
	Following int

	// Posts in discovery order, not necessarily chronological.
	Posts []Post
}

// Post represents one content item belonging to a Profile.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Post struct {
	Content string // Post text, may be empty

	// Posted is the platform-local timestamp. The zero value means the
	// timestamp was absent or unparsable; such posts are excluded from
	// temporal aggregates but never rejected.
	Posted time.Time

	Hashtags []string
	Mentions []string

	// Engagement counters, zero when absent.
	Likes    int
	Comments int
}

// ID returns the platform-qualified identifier for this record,
// e.g. "instagram:jane.doe".
func (p *Profile) ID() string {
	return p.Platform + ":" + p.Username
}

// HasTimestamp reports whether the post carries a usable timestamp.
func (p *Post) HasTimestamp() bool {
	return !p.Posted.IsZero()
}
