package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-funnel/internal/common/config"
	"creator-funnel/internal/common/logger"
)

type fakeAPI struct {
	channelID  string
	videoCount int
	videos     []Video
	views      []int64
	err        error
}

func (f *fakeAPI) ResolveHandle(_ context.Context, handle string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.channelID, nil
}

func (f *fakeAPI) ResolveUsername(_ context.Context, username string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.channelID, nil
}

func (f *fakeAPI) ChannelVideoCount(_ context.Context, channelID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.videoCount, nil
}

func (f *fakeAPI) RecentVideos(_ context.Context, channelID string, maxResults int) ([]Video, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.videos, nil
}

func (f *fakeAPI) VideoViewCounts(_ context.Context, videoIDs []string) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.views, nil
}

func testConfig() config.VerificationConfig {
	return config.VerificationConfig{
		Enabled:     true,
		MinVideos:   10,
		RecencyDays: 180,
		MinMaxViews: 5000,
		MinAvgViews: 500,
	}
}

func newTestVerifier(t *testing.T, api ChannelAPI) *Verifier {
	t.Helper()
	v := NewVerifier(api, testConfig(), logger.NewTestLogger(t))
	v.now = func() time.Time { return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) }
	return v
}

func recentVideos(n int, publishedAt time.Time) []Video {
	videos := make([]Video, n)
	for i := range videos {
		videos[i] = Video{ID: "vid", PublishedAt: publishedAt}
	}
	return videos
}

func TestVerifyNoAPIConfigured(t *testing.T) {
	v := NewVerifier(nil, testConfig(), logger.NewTestLogger(t))
	result := v.Verify(context.Background(), "https://youtube.com/@someone", false)
	assert.True(t, result.Verified)
}

func TestVerifyVideoCountGate(t *testing.T) {
	tests := []struct {
		name       string
		videoCount int
		verified   bool
	}{
		{"nine videos fails", 9, false},
		{"ten videos passes gate", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{
				channelID:  "UC123",
				videoCount: tt.videoCount,
				videos:     recentVideos(5, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
				views:      []int64{10000, 8000, 6000, 4000, 2000},
			}
			result := newTestVerifier(t, api).Verify(context.Background(), "https://youtube.com/@someone", false)
			assert.Equal(t, tt.verified, result.Verified)
			if !tt.verified {
				assert.Equal(t, "Only 9 total videos (minimum 10 required)", result.Reason)
			}
		})
	}
}

func TestVerifyRecencyGate(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ageDays  int
		verified bool
	}{
		{"latest upload 179 days ago passes", 179, true},
		{"latest upload 181 days ago fails", 181, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{
				channelID:  "UC123",
				videoCount: 50,
				videos:     recentVideos(10, now.AddDate(0, 0, -tt.ageDays)),
				views:      []int64{10000, 9000, 8000, 7000, 6000, 5000, 4000, 3000, 2000, 1000},
			}
			result := newTestVerifier(t, api).Verify(context.Background(), "https://youtube.com/@someone", false)
			assert.Equal(t, tt.verified, result.Verified)
			if !tt.verified {
				assert.Equal(t, "No videos published in the last 6 months", result.Reason)
			}
		})
	}
}

func TestVerifyPerformanceGate(t *testing.T) {
	recent := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name             string
		views            []int64
		hasOtherPlatform bool
		verified         bool
		reason           string
	}{
		{
			name:     "both thresholds missed fails",
			views:    []int64{400, 300, 200},
			verified: false,
			reason:   "Performance unmet (max views 400, avg 300)",
		},
		{
			name:     "high max views alone passes",
			views:    []int64{6000, 100, 100},
			verified: true,
		},
		{
			name:     "high average alone passes",
			views:    []int64{700, 600, 500},
			verified: true,
		},
		{
			name:             "other platform skips performance gate",
			views:            []int64{400, 300, 200},
			hasOtherPlatform: true,
			verified:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{
				channelID:  "UC123",
				videoCount: 50,
				videos:     recentVideos(len(tt.views), recent),
				views:      tt.views,
			}
			result := newTestVerifier(t, api).Verify(context.Background(), "https://youtube.com/@someone", tt.hasOtherPlatform)
			assert.Equal(t, tt.verified, result.Verified)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, result.Reason)
			}
		})
	}
}

func TestVerifyStatsPopulated(t *testing.T) {
	api := &fakeAPI{
		channelID:  "UC123",
		videoCount: 42,
		videos:     recentVideos(4, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)),
		views:      []int64{8000, 2000, 1000, 1000},
	}
	result := newTestVerifier(t, api).Verify(context.Background(), "https://youtube.com/@someone", false)
	require.True(t, result.Verified)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 42, result.Stats.VideoCount)
	assert.Equal(t, 4, result.Stats.RecentVideoCount)
	assert.Equal(t, int64(8000), result.Stats.MaxViews)
	assert.InDelta(t, 3000.0, result.Stats.AverageViews, 0.001)
}

func TestVerifyFailOpenOnAPIError(t *testing.T) {
	api := &fakeAPI{err: errors.New("quota exceeded")}
	result := newTestVerifier(t, api).Verify(context.Background(), "https://youtube.com/@someone", false)
	assert.True(t, result.Verified)
	assert.Equal(t, "Verification error, skipped", result.Reason)
}

func TestResolveChannelID(t *testing.T) {
	api := &fakeAPI{channelID: "UCresolved"}
	v := newTestVerifier(t, api)

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"direct channel id", "https://www.youtube.com/channel/UCabc123", "UCabc123", false},
		{"handle", "https://youtube.com/@creator", "UCresolved", false},
		{"legacy username", "https://youtube.com/user/oldname", "UCresolved", false},
		{"bare host", "https://youtube.com/", "", true},
		{"unrecognized path", "https://youtube.com/watch", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.resolveChannelID(context.Background(), tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
