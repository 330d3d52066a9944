// Package ingest loads harvested profile batches from JSON produced by
// external scraping and storage collaborators.
//
// Field presence is best-effort: harvesters on different platforms name
// the same field differently ("caption" vs "content", "full_name" vs
// "display_name") and omit whatever they could not extract. Missing or
// malformed fields never fail a load; an unparsable timestamp simply
// leaves the post without one.
package ingest

import (
	"errors"
	"time"

	"github.com/tidwall/gjson"

	"github.com/codeGROOVE-dev/doppelganger/record"
)

// ErrNotJSON is returned when the input is not valid JSON at all.
var ErrNotJSON = errors.New("input is not valid JSON")

// Timestamp layouts tried in order, mirroring what platform harvesters
// actually emit.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load parses a batch of {platform, profile, posts[]} records. The top
// level may be a bare array or an object with a "profiles" key. Records
// without a platform or username are skipped: they cannot participate
// in identity resolution.
func Load(data []byte) ([]*record.Profile, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrNotJSON
	}

	root := gjson.ParseBytes(data)
	batch := root
	if root.IsObject() {
		batch = root.Get("profiles")
	}

	var records []*record.Profile
	batch.ForEach(func(_, entry gjson.Result) bool {
		if r := loadRecord(entry); r != nil {
			records = append(records, r)
		}
		return true
	})
	return records, nil
}

func loadRecord(entry gjson.Result) *record.Profile {
	profile := entry.Get("profile")
	if !profile.Exists() {
		profile = entry
	}

	username := profile.Get("username").String()
	platform := entry.Get("platform").String()
	if platform == "" {
		platform = profile.Get("platform").String()
	}
	if username == "" || platform == "" {
		return nil
	}

	r := &record.Profile{
		Platform:    platform,
		Username:    username,
		DisplayName: firstString(profile, "display_name", "full_name", "name"),
		Bio:         firstString(profile, "biography", "description", "bio"),
		Followers:   clampNonNegative(firstInt(profile, "followers", "follower_count")),
		Following:   clampNonNegative(firstInt(profile, "following", "following_count")),
	}

	entry.Get("posts").ForEach(func(_, post gjson.Result) bool {
		r.Posts = append(r.Posts, loadPost(post))
		return true
	})
	return r
}

func loadPost(post gjson.Result) record.Post {
	return record.Post{
		Content:  firstString(post, "content", "caption", "text"),
		Posted:   parseTime(firstString(post, "date", "timestamp", "taken_at")),
		Hashtags: stringList(post.Get("hashtags")),
		Mentions: stringList(post.Get("mentions")),
		Likes:    clampNonNegative(firstInt(post, "likes", "like_count")),
		Comments: clampNonNegative(firstInt(post, "comments", "comment_count")),
	}
}

// parseTime parses a platform-local timestamp, returning the zero time
// when the value is absent or unparsable.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstString(r gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := r.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func firstInt(r gjson.Result, keys ...string) int {
	for _, key := range keys {
		if v := r.Get(key); v.Exists() {
			return int(v.Int())
		}
	}
	return 0
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func stringList(r gjson.Result) []string {
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		if s := v.String(); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}
