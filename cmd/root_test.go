package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noOnboarding(t *testing.T) onboardFunc {
	return func(string, string) (onboardingResult, error) {
		t.Fatal("onboarding should not run")
		return onboardingResult{}, nil
	}
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"BIZDASH_TOKEN", "BIZDASH_API_BASE_URL", "BIZDASH_CONFIG_DIR", "BIZDASH_LOG_MODE", "BIZDASH_UI_CURRENCY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaultsAndFlags(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := load([]string{"--config-dir", dir, "--api", "https://dash.example.com/api", "--timeout", "3s"}, "dev", io.Discard, false, noOnboarding(t))
	require.NoError(t, err)

	assert.Equal(t, "https://dash.example.com/api", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Equal(t, filepath.Join(dir, "bizdash.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "bizdash.log"), cfg.LogFile)
	assert.Equal(t, filepath.Join(dir, "exports"), cfg.ExportDir)
	assert.Equal(t, "dev", cfg.LogMode)
	assert.Equal(t, "en-GB", cfg.Locale)
	assert.Equal(t, "GBP", cfg.Currency)
}

func TestLoadLayering(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[api]
base_url = "https://file.example.com"
timeout = "20s"

[ui]
currency = "EUR"

[log]
mode = "prod"
`), 0600))
	t.Setenv("BIZDASH_UI_CURRENCY", "USD")

	cfg, err := load([]string{"--config-dir", dir, "--log-mode", "dev"}, "dev", io.Discard, false, noOnboarding(t))
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.BaseURL, "file value")
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, "USD", cfg.Currency, "env beats file")
	assert.Equal(t, "dev", cfg.LogMode, "flag beats file")
}

func TestLoadTokenChain(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("from-file\n"), 0600))
	args := []string{"--config-dir", dir, "--api", "http://localhost:3000"}

	cfg, err := load(args, "dev", io.Discard, false, noOnboarding(t))
	require.NoError(t, err)
	tok, err := cfg.Tokens.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-file", tok)

	t.Setenv("BIZDASH_TOKEN", "from-env")
	cfg, err = load(args, "dev", io.Discard, false, noOnboarding(t))
	require.NoError(t, err)
	tok, _ = cfg.Tokens.Token()
	assert.Equal(t, "from-env", tok)

	cfg, err = load(append(args, "--token", "from-flag"), "dev", io.Discard, false, noOnboarding(t))
	require.NoError(t, err)
	tok, _ = cfg.Tokens.Token()
	assert.Equal(t, "from-flag", tok)
}

func TestLoadWithoutBaseURL(t *testing.T) {
	clearEnv(t)
	_, err := load([]string{"--config-dir", t.TempDir()}, "dev", io.Discard, false, noOnboarding(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API base URL configured")
}

func TestLoadRunsOnboardingAndPersists(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	calls := 0
	onboard := func(configDir, _ string) (onboardingResult, error) {
		calls++
		assert.Equal(t, dir, configDir)
		return onboardingResult{BaseURL: "https://dash.example.com", Token: "tok123"}, nil
	}

	cfg, err := load([]string{"--config-dir", dir}, "dev", io.Discard, true, onboard)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "https://dash.example.com", cfg.BaseURL)
	tok, err := cfg.Tokens.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok123", tok)

	info, err := os.Stat(filepath.Join(dir, "token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// The second run reads the saved URL and skips onboarding.
	cfg, err = load([]string{"--config-dir", dir}, "dev", io.Discard, true, noOnboarding(t))
	require.NoError(t, err)
	assert.Equal(t, "https://dash.example.com", cfg.BaseURL)
}

func TestLoadVersion(t *testing.T) {
	_, err := load([]string{"--version"}, "1.2.3", io.Discard, false, noOnboarding(t))
	assert.True(t, errors.Is(err, ErrVersion))
}

func TestOnboardingModelCapturesURLAndToken(t *testing.T) {
	var m tea.Model = newOnboardingModel(t.TempDir(), "")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ftp://nope")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	om := m.(onboardingModel)
	assert.Equal(t, stepURL, om.step)
	assert.NotEmpty(t, om.problem)

	om.urlInput.SetValue("https://dash.example.com/api/")
	m, _ = om.Update(tea.KeyMsg{Type: tea.KeyEnter})
	om = m.(onboardingModel)
	require.Equal(t, stepToken, om.step)
	assert.Equal(t, "https://dash.example.com/api", om.result.BaseURL)

	m, _ = om.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("secret")})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	om = m.(onboardingModel)
	assert.Equal(t, stepDone, om.step)
	assert.Equal(t, "secret", om.result.Token)
	assert.NotNil(t, cmd)
}

func TestOnboardingViewRendersEachStep(t *testing.T) {
	var m tea.Model = newOnboardingModel(t.TempDir(), "")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.View(), "Where is your dashboard API?")

	om := m.(onboardingModel)
	om.urlInput.SetValue("https://dash.example.com")
	m, _ = om.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "API token")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "Onboarding Complete")
}
