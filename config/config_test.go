package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "  Owner@Example.com ")
	t.Setenv("SITE_URL", "https://lfsdirectory.com/")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WRITES_PER_IP", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", cfg.Admin.AllowedEmail)
	assert.Equal(t, "https://lfsdirectory.com", cfg.Server.SiteURL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 20, cfg.RateLimit.WritesPerIP)
	assert.Equal(t, 15*time.Minute, cfg.JWT.MagicLinkExpiry)
	assert.Equal(t, "LFSDirectory/1.0 (lfsdirectory.com)", cfg.Geocode.UserAgent)
}

func TestParseSlice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "single", input: "http://a", want: []string{"http://a"}},
		{name: "trims and skips blanks", input: "http://a, http://b,,", want: []string{"http://a", "http://b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSlice(tt.input)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "lfs", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=lfs sslmode=disable", cfg.DSN())
}
