package charts

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrSnapshotDisabled is returned when PNG snapshots are turned off.
var ErrSnapshotDisabled = errors.New("chart snapshots are disabled")

// Snapshotter renders chart pages to PNG through headless Chrome.
type Snapshotter struct {
	enabled bool
	timeout time.Duration
	settle  time.Duration
}

func NewSnapshotter(enabled bool, timeout time.Duration) *Snapshotter {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Snapshotter{enabled: enabled, timeout: timeout, settle: 1500 * time.Millisecond}
}

func (s *Snapshotter) Enabled() bool { return s != nil && s.enabled }

// Snapshot loads html in a fresh browser tab and captures the full page.
func (s *Snapshotter) Snapshot(ctx context.Context, html []byte) ([]byte, error) {
	if !s.Enabled() {
		return nil, ErrSnapshotDisabled
	}
	parent, cancel := chromedp.NewContext(ctx)
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(parent, s.timeout)
	defer cancelTimeout()

	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)
	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(chartWidthPx+40), int64(priceHeightPx+volumeHeightPx+80)),
		chromedp.Navigate(dataURI),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// echarts animates the first paint
		chromedp.Sleep(s.settle),
		chromedp.FullScreenshot(&screenshot, 100),
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, err
	}
	return screenshot, nil
}
