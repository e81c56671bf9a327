// Package browser owns the single reusable headless-browser process that
// scrape adapters borrow isolated pages from.
package browser

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/empleoradar/backend/pkg/logger"
)

// desktopUserAgents is the rotation pool for scrape pages.
var desktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// RandomUserAgent picks a desktop user agent for a borrowed page.
func RandomUserAgent() string {
	return desktopUserAgents[rand.Intn(len(desktopUserAgents))]
}

// Config fixes the launch parameters of the shared process.
type Config struct {
	// ExecutablePath points at a pre-installed browser; empty lets the
	// automation library resolve one.
	ExecutablePath string
	WindowWidth    int
	WindowHeight   int
}

// SessionManager lazily launches one headless-browser process, detects
// disconnection and relaunches on demand. Adapters never see the process;
// they only receive ready page contexts via Page.
type SessionManager struct {
	mu  sync.Mutex
	cfg Config
	log *zap.Logger

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSessionManager creates the manager without launching anything; the
// process starts on the first Page call.
func NewSessionManager(cfg Config) *SessionManager {
	if cfg.WindowWidth == 0 {
		cfg.WindowWidth = 1366
	}
	if cfg.WindowHeight == 0 {
		cfg.WindowHeight = 768
	}
	return &SessionManager{cfg: cfg, log: logger.Named("browser")}
}

// Page borrows an isolated page from the shared process, launching or
// relaunching it first if needed. The returned context carries the given
// timeout; the caller must invoke the cancel func to release the page.
func (m *SessionManager) Page(timeout time.Duration) (context.Context, context.CancelFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLaunched(); err != nil {
		return nil, nil, err
	}

	pageCtx, pageCancel := chromedp.NewContext(m.browserCtx)
	if timeout > 0 {
		var timeoutCancel context.CancelFunc
		pageCtx, timeoutCancel = context.WithTimeout(pageCtx, timeout)
		inner := pageCancel
		pageCancel = func() {
			timeoutCancel()
			inner()
		}
	}
	return pageCtx, pageCancel, nil
}

// ensureLaunched makes sure a live process exists. Callers hold the mutex.
func (m *SessionManager) ensureLaunched() error {
	if m.browserCtx != nil && m.browserCtx.Err() == nil {
		return nil
	}

	// A dead session leaves stale contexts behind; tear them down before
	// relaunching.
	m.teardown()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(m.cfg.WindowWidth, m.cfg.WindowHeight),
		chromedp.Flag("lang", "es-ES,es"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
	)
	if m.cfg.ExecutablePath != "" {
		opts = append(opts, chromedp.ExecPath(m.cfg.ExecutablePath))
	}

	m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	m.browserCtx, m.browserCancel = chromedp.NewContext(m.allocCtx)

	// Run with no actions starts the process so a launch failure surfaces
	// here instead of on the first navigation.
	if err := chromedp.Run(m.browserCtx); err != nil {
		m.teardown()
		return fmt.Errorf("browser: launch: %w", err)
	}

	m.log.Info("browser session launched",
		zap.Int("width", m.cfg.WindowWidth),
		zap.Int("height", m.cfg.WindowHeight),
	)
	return nil
}

func (m *SessionManager) teardown() {
	if m.browserCancel != nil {
		m.browserCancel()
		m.browserCancel = nil
		m.browserCtx = nil
	}
	if m.allocCancel != nil {
		m.allocCancel()
		m.allocCancel = nil
		m.allocCtx = nil
	}
}

// Close shuts the process down. Called once on shutdown signal; safe to call
// when nothing was ever launched.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browserCtx != nil {
		m.log.Info("closing browser session")
	}
	m.teardown()
}
