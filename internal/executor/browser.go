// Package executor carries out interpreted actions on the local machine.
// URL actions open in a Chrome instance driven by chromedp; call actions
// are logged since placing phone calls needs a paired device.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"jarvis/internal/domain"
)

const navigateTimeout = 30 * time.Second

// Browser executes actions by driving a Chrome instance.
type Browser struct {
	profileDir string
	headless   bool
	logger     *slog.Logger
}

// BrowserConfig holds configuration for the browser executor.
type BrowserConfig struct {
	ProfileDir string // Chrome user data directory (persists cookies/sessions)
	Headless   bool   // Run headless (true) or with visible UI (false)
	Logger     *slog.Logger
}

func NewBrowser(cfg BrowserConfig) *Browser {
	if cfg.ProfileDir == "" {
		home, _ := os.UserHomeDir()
		cfg.ProfileDir = filepath.Join(home, ".jarvis", "chrome-profile")
	}
	return &Browser{
		profileDir: cfg.ProfileDir,
		headless:   cfg.Headless,
		logger:     cfg.Logger,
	}
}

// Execute carries out each action in order. URL-bearing actions open in the
// browser; the rest are logged.
func (b *Browser) Execute(ctx context.Context, actions []domain.Action) error {
	for _, a := range actions {
		switch a.Type {
		case domain.ActionOpenURL, domain.ActionCreateCalendar:
			if err := b.openURL(ctx, a.URL); err != nil {
				return fmt.Errorf("open %s: %w", a.URL, err)
			}
		case domain.ActionCall:
			b.logger.Info("call action requires a paired phone, skipping", "phone", a.Phone)
		case domain.ActionMessage:
			b.logger.Debug("message action", "text", a.Text)
		}
	}
	return nil
}

func (b *Browser) openURL(ctx context.Context, url string) error {
	taskCtx, cancel := b.newContext(ctx)
	defer cancel()

	taskCtx, taskCancel := context.WithTimeout(taskCtx, navigateTimeout)
	defer taskCancel()

	b.logger.Info("opening url in browser", "url", url)

	return chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
}

// newContext creates a new chromedp context with the executor's Chrome
// profile. The caller MUST call cancel() when done.
func (b *Browser) newContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	if err := os.MkdirAll(b.profileDir, 0o755); err != nil {
		b.logger.Error("failed to create profile dir", "dir", b.profileDir, "err", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(b.profileDir),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
	)

	if b.headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, opts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	cancelAll := func() {
		taskCancel()
		allocCancel()
	}

	return taskCtx, cancelAll
}
