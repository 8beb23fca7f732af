package menu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() Data {
	return Data{Prefix: "!", BotName: "DEAD-X-BOT", Developer: "SAVX", Period: Afternoon}
}

func TestPeriodAt(t *testing.T) {
	at := func(hour int) time.Time { return time.Date(2026, 1, 1, hour, 30, 0, 0, time.UTC) }

	assert.Equal(t, Evening, PeriodAt(at(5)))
	assert.Equal(t, Morning, PeriodAt(at(6)))
	assert.Equal(t, Morning, PeriodAt(at(11)))
	assert.Equal(t, Afternoon, PeriodAt(at(12)))
	assert.Equal(t, Afternoon, PeriodAt(at(17)))
	assert.Equal(t, Evening, PeriodAt(at(18)))
	assert.Equal(t, Evening, PeriodAt(at(0)))
}

func TestLookup(t *testing.T) {
	for command, want := range map[string]string{
		"menu": Main, "help": Main, "godmenu": "god", "settingsmenu": "settings",
	} {
		got, ok := Lookup(command)
		require.True(t, ok, command)
		assert.Equal(t, want, got)
	}

	_, ok := Lookup("ping")
	assert.False(t, ok)
}

func TestCatalog_Main(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	text, err := c.Render(Main, testData())
	require.NoError(t, err)

	assert.Contains(t, text, "☀️ Good Afternoon! ☀️")
	assert.Contains(t, text, "Prefix: !")
	assert.Contains(t, text, "Time: Afternoon")
	assert.Contains(t, text, "Mode: Public")
	assert.Contains(t, text, "!godmenu")
	assert.Contains(t, text, "!settingsmenu")
	assert.Contains(t, text, "🔥 Developed by SAVX")
}

func TestCatalog_Sections(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	for _, name := range []string{"god", "general", "ai", "group", "download", "fun", "tools", "settings"} {
		t.Run(name, func(t *testing.T) {
			require.True(t, c.Has(name))
			text, err := c.Render(name, testData())
			require.NoError(t, err)
			assert.Contains(t, text, "🔥 Developed by SAVX")
		})
	}

	text, err := c.Render("fun", testData())
	require.NoError(t, err)
	assert.Contains(t, text, "║ !rps <choice>")
	assert.Contains(t, text, "Example: !rps rock")
	assert.NotContains(t, text, "{{")
}

func TestCatalog_Unknown(t *testing.T) {
	c, err := NewCatalog()
	require.NoError(t, err)

	assert.False(t, c.Has("secret"))
	_, err = c.Render("secret", testData())
	assert.Error(t, err)
}

func TestParseCatalog_Invalid(t *testing.T) {
	_, err := ParseCatalog([]byte("main: \"{{.Prefix\""))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte(":\n  - ["))
	assert.Error(t, err)
}
