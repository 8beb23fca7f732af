package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SCANNER_URL", "http://scanner.local")
	t.Setenv("SESSION_ID", "sess-1")
	t.Setenv("NETHUNTER_FX_URL", "http://executor.local")
	t.Setenv("TELEGRAM_API_ID", "12345")
	t.Setenv("TELEGRAM_API_HASH", "hash")
}

func Test__CreateApp(t *testing.T) {
	setRequired(t)
	require.NoError(t, fx.ValidateApp(CreateApp()))
}

func Test__CreateSessionApp(t *testing.T) {
	setRequired(t)
	require.NoError(t, fx.ValidateApp(CreateSessionApp()))
}

func Test__CreateSessionApp_ScannerOnly(t *testing.T) {
	t.Setenv("SCANNER_URL", "http://scanner.local")
	t.Setenv("SESSION_ID", "")
	t.Setenv("NETHUNTER_FX_URL", "")
	t.Setenv("TELEGRAM_API_ID", "")
	t.Setenv("TELEGRAM_API_HASH", "")

	require.NoError(t, fx.ValidateApp(CreateSessionApp()))
}
