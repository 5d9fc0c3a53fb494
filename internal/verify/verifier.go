// Package verify checks a YouTube channel against minimum-activity and
// performance criteria before an applicant is qualified.
package verify

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"creator-funnel/internal/common/config"
	"creator-funnel/internal/common/logger"
)

// VerifyStats carries the diagnostic numbers gathered during a check.
type VerifyStats struct {
	VideoCount       int     `json:"videoCount"`
	RecentVideoCount int     `json:"recentVideoCount"`
	AverageViews     float64 `json:"averageViews"`
	MaxViews         int64   `json:"maxViews"`
}

// VerifyResult is the outcome of a channel verification.
type VerifyResult struct {
	Verified bool         `json:"verified"`
	Reason   string       `json:"reason,omitempty"`
	Stats    *VerifyStats `json:"stats,omitempty"`
}

// Video is one search result item from the channel's upload feed.
type Video struct {
	ID          string
	PublishedAt time.Time
}

// ChannelAPI is the slice of the YouTube Data API the verifier needs.
type ChannelAPI interface {
	ResolveHandle(ctx context.Context, handle string) (string, error)
	ResolveUsername(ctx context.Context, username string) (string, error)
	ChannelVideoCount(ctx context.Context, channelID string) (int, error)
	RecentVideos(ctx context.Context, channelID string, maxResults int) ([]Video, error)
	VideoViewCounts(ctx context.Context, videoIDs []string) ([]int64, error)
}

// Verifier applies the channel gates. A nil api means no credential is
// configured and every check passes: a third-party outage must not
// cost a qualified lead.
type Verifier struct {
	api    ChannelAPI
	cfg    config.VerificationConfig
	logger logger.Logger
	now    func() time.Time
}

func NewVerifier(api ChannelAPI, cfg config.VerificationConfig, log logger.Logger) *Verifier {
	return &Verifier{
		api:    api,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "verify"}),
		now:    time.Now,
	}
}

// Verify resolves channelURL and applies the gates in order: total
// video count, upload recency, then view performance. The performance
// gate is skipped when hasOtherPlatform is set. Any API failure returns
// verified=true.
func (v *Verifier) Verify(ctx context.Context, channelURL string, hasOtherPlatform bool) VerifyResult {
	if v.api == nil {
		v.logger.Warn("verification credential not configured, skipping", nil)
		return VerifyResult{Verified: true}
	}

	result, err := v.verify(ctx, channelURL, hasOtherPlatform)
	if err != nil {
		v.logger.WithError(err).Error("channel verification error", map[string]interface{}{
			"channelUrl": channelURL,
		})
		return VerifyResult{Verified: true, Reason: "Verification error, skipped"}
	}
	return result
}

func (v *Verifier) verify(ctx context.Context, channelURL string, hasOtherPlatform bool) (VerifyResult, error) {
	channelID, err := v.resolveChannelID(ctx, channelURL)
	if err != nil {
		return VerifyResult{}, err
	}

	totalVideos, err := v.api.ChannelVideoCount(ctx, channelID)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("channel statistics: %w", err)
	}
	if totalVideos < v.cfg.MinVideos {
		return VerifyResult{
			Verified: false,
			Reason:   fmt.Sprintf("Only %d total videos (minimum %d required)", totalVideos, v.cfg.MinVideos),
		}, nil
	}

	videos, err := v.api.RecentVideos(ctx, channelID, 50)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("recent videos: %w", err)
	}

	cutoff := v.now().AddDate(0, 0, -v.cfg.RecencyDays)
	recentCount := 0
	for _, vid := range videos {
		if vid.PublishedAt.After(cutoff) {
			recentCount++
		}
	}
	if recentCount < 1 {
		return VerifyResult{
			Verified: false,
			Reason:   "No videos published in the last 6 months",
		}, nil
	}

	ids := make([]string, 0, len(videos))
	for _, vid := range videos {
		ids = append(ids, vid.ID)
	}
	views, err := v.api.VideoViewCounts(ctx, ids)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("video statistics: %w", err)
	}

	var maxViews int64
	var sum int64
	for _, count := range views {
		if count > maxViews {
			maxViews = count
		}
		sum += count
	}
	avgViews := 0.0
	if len(views) > 0 {
		avgViews = float64(sum) / float64(len(views))
	}

	stats := &VerifyStats{
		VideoCount:       totalVideos,
		RecentVideoCount: recentCount,
		AverageViews:     avgViews,
		MaxViews:         maxViews,
	}

	// Both thresholds must be missed to fail; clearing either passes.
	if !hasOtherPlatform &&
		maxViews < int64(v.cfg.MinMaxViews) &&
		avgViews <= float64(v.cfg.MinAvgViews) {
		return VerifyResult{
			Verified: false,
			Reason:   fmt.Sprintf("Performance unmet (max views %d, avg %d)", maxViews, int(math.Round(avgViews))),
			Stats:    stats,
		}, nil
	}

	return VerifyResult{Verified: true, Stats: stats}, nil
}

// resolveChannelID derives a channel id from a public channel URL.
// Supported forms: /channel/{id}, /@handle, /user/{username}.
func (v *Verifier) resolveChannelID(ctx context.Context, channelURL string) (string, error) {
	u, err := url.Parse(channelURL)
	if err != nil {
		return "", fmt.Errorf("parse channel url: %w", err)
	}

	parts := []string{}
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("could not resolve channel identifier from URL: %s", channelURL)
	}

	if parts[0] == "channel" && len(parts) > 1 {
		return parts[1], nil
	}

	if strings.HasPrefix(parts[0], "@") {
		return v.api.ResolveHandle(ctx, parts[0])
	}

	if parts[0] == "user" && len(parts) > 1 {
		return v.api.ResolveUsername(ctx, parts[1])
	}

	return "", fmt.Errorf("could not resolve channel identifier from URL: %s", channelURL)
}
