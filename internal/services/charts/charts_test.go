package charts

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDash/internal/domain/models"
)

func sampleInput(style models.ChartStyle) Input {
	s := models.NormalizedSeries{
		{Date: "2024-01-02", Open: 187.15, High: 188.44, Low: 183.89, Close: 185.64, Volume: 82488700},
		{Date: "2024-01-03", Open: 184.22, High: 185.88, Low: 183.43, Close: 184.25, Volume: 58414500},
	}
	return Input{
		Symbol:     "AAPL",
		Style:      style,
		Series:     s,
		Directions: []models.Direction{models.DirectionDown, models.DirectionUp},
	}
}

func TestRenderCandlestick(t *testing.T) {
	html, err := RenderHTML(sampleInput(models.ChartCandlestick))
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "AAPL Stock Price")
	assert.Contains(t, page, "AAPL Trading Volume")
	assert.Contains(t, page, "candlestick")
	assert.Contains(t, page, ColorUp)
	assert.Contains(t, page, ColorDown)
	assert.Contains(t, page, "2024-01-03")
}

func TestRenderLine(t *testing.T) {
	html, err := RenderHTML(sampleInput(models.ChartLine))
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "AAPL Close Price")
	assert.NotContains(t, page, `"candlestick"`)
}

func TestBuildPageRejectsBadInput(t *testing.T) {
	_, err := BuildPage(Input{Symbol: "AAPL"})
	assert.Error(t, err)

	in := sampleInput(models.ChartLine)
	in.Directions = in.Directions[:1]
	_, err = BuildPage(in)
	assert.Error(t, err)
}

func TestDirectionColor(t *testing.T) {
	assert.Equal(t, "#00D4AA", DirectionColor(models.DirectionUp))
	assert.Equal(t, "#FF4B4B", DirectionColor(models.DirectionDown))
}

func TestSnapshotDisabled(t *testing.T) {
	_, err := NewSnapshotter(false, time.Second).Snapshot(context.Background(), []byte("<html></html>"))
	assert.ErrorIs(t, err, ErrSnapshotDisabled)

	var s *Snapshotter
	assert.False(t, s.Enabled())
}

func TestSnapshot(t *testing.T) {
	if testing.Short() {
		t.Skip("needs a browser")
	}
	found := false
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("no chrome binary on PATH")
	}

	html, err := RenderHTML(sampleInput(models.ChartCandlestick))
	require.NoError(t, err)

	png, err := NewSnapshotter(true, 30*time.Second).Snapshot(context.Background(), html)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
