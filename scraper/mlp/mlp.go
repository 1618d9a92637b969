package mlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"

	"rally-metrics/config"
	"rally-metrics/models"
	"rally-metrics/utils"
)

// ErrTableNotFound is returned when the standings table never appears on the page.
var ErrTableNotFound = errors.New("mlp: standings table not found")

const defaultReadyTimeout = 30 * time.Second

// tableScript reads the rendered text of the header cells of the first row and
// the data cells of every following row. It expects the table id as %q.
const tableScript = `
	(function(id) {
		var table = document.getElementById(id);
		if (!table) return {headers: [], rows: []};
		var trs = table.getElementsByTagName('tr');
		var text = function(el) { return (el.innerText || '').trim(); };
		var headers = [];
		var rows = [];
		if (trs.length === 0) return {headers: headers, rows: rows};
		var ths = trs[0].getElementsByTagName('th');
		for (var i = 0; i < ths.length; i++) headers.push(text(ths[i]));
		for (var r = 1; r < trs.length; r++) {
			var tds = trs[r].getElementsByTagName('td');
			var cells = [];
			for (var c = 0; c < tds.length; c++) cells.push(text(tds[c]));
			rows.push(cells);
		}
		return {headers: headers, rows: rows};
	})(%q)
`

// Scraper loads the Major League Pickleball standings page in headless Chrome.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
}

// New creates a ready-to-use standings Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{cfg: cfg, logger: logger}
}

// FetchStandings renders the standings page and extracts the raw table.
// The browser session is torn down before it returns, on every path.
func (s *Scraper) FetchStandings(ctx context.Context) (*models.RawTable, error) {
	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("[mlp] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("remote-debugging-port", strconv.Itoa(s.cfg.ChromeDebugPort)),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	s.logger.Info("[mlp] Loading %s", s.cfg.StandingsURL)
	if err := chromedp.Run(browserCtx, chromedp.Navigate(s.cfg.StandingsURL)); err != nil {
		return nil, fmt.Errorf("mlp: navigate: %w", err)
	}

	selector := "#" + s.cfg.TableID
	timeout := s.cfg.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	waitCtx, cancelWait := context.WithTimeout(browserCtx, timeout)
	defer cancelWait()
	if err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("%w: %s after %v: %v", ErrTableNotFound, selector, timeout, err)
	}

	if s.cfg.SettleDelay > 0 {
		if err := chromedp.Run(browserCtx, chromedp.Sleep(s.cfg.SettleDelay)); err != nil {
			return nil, fmt.Errorf("mlp: settle: %w", err)
		}
	}

	var cells struct {
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	}
	if err := chromedp.Run(browserCtx, chromedp.Evaluate(fmt.Sprintf(tableScript, s.cfg.TableID), &cells)); err != nil {
		return nil, fmt.Errorf("mlp: extract table: %w", err)
	}
	if len(cells.Headers) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrTableNotFound, selector)
	}

	table := NewRawTable(cells.Headers, cells.Rows)
	s.logger.Info("[mlp] Extracted %d columns, %d rows (dropped %d malformed)",
		len(table.Headers), len(table.Rows), len(cells.Rows)-len(table.Rows))
	return table, nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
