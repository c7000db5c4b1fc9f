package scraper

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/chromedp/chromedp"
)

// BrowserPool owns one headless Chrome process and hands out one tab at a
// time.
type BrowserPool struct {
	allocCtx context.Context
	ctx      context.Context
	cancel   context.CancelFunc
	opts     []chromedp.ExecAllocatorOption

	mu     sync.Mutex
	tabSem chan struct{}
}

// NewBrowserPool starts Chrome with a desktop user agent and window size.
// CHROME_PATH overrides the browser binary.
func NewBrowserPool(options ...chromedp.ExecAllocatorOption) (*BrowserPool, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	opts = append(opts, options...)

	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		slog.Info("[BrowserPool] Using custom chrome path", slog.String("path", chromePath))
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	bp := &BrowserPool{
		opts:   opts,
		tabSem: make(chan struct{}, 1),
	}

	if err := bp.start(); err != nil {
		return nil, err
	}
	return bp, nil
}

// start initializes or restarts the Chrome process.
func (bp *BrowserPool) start() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.cancel()
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), bp.opts...)
	ctx, _ := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return err
	}

	bp.allocCtx = allocCtx
	bp.ctx = ctx
	bp.cancel = cancel

	slog.Info("[BrowserPool] Chrome started")
	return nil
}

// WithTab runs fn with exclusive access to a fresh tab. The tab is closed
// when fn returns or ctx is canceled.
func (bp *BrowserPool) WithTab(ctx context.Context, fn func(tabCtx context.Context) error) error {
	select {
	case bp.tabSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-bp.tabSem }()

	tabCtx, tabCancel, err := bp.acquireTab()
	if err != nil {
		return err
	}
	defer tabCancel()

	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	return fn(tabCtx)
}

// acquireTab opens a tab, restarting Chrome once if the tab is unhealthy.
func (bp *BrowserPool) acquireTab() (context.Context, context.CancelFunc, error) {
	bp.mu.Lock()
	tabCtx, tabCancel := chromedp.NewContext(bp.ctx)
	bp.mu.Unlock()

	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()

		slog.Warn("[BrowserPool] Tab failed, restarting chrome", slog.String("error", err.Error()))
		if restartErr := bp.start(); restartErr != nil {
			return nil, nil, restartErr
		}

		bp.mu.Lock()
		tabCtx, tabCancel = chromedp.NewContext(bp.ctx)
		bp.mu.Unlock()
	}

	return tabCtx, tabCancel, nil
}

// Close shuts down the browser.
func (bp *BrowserPool) Close() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.cancel()
		slog.Info("[BrowserPool] Chrome stopped")
	}
}
