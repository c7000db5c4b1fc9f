package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Page is the browser surface the collectors drive.
type Page interface {
	Navigate(ctx context.Context, url string) error
	ScrollToBottom(ctx context.Context) error
	// Texts returns the trimmed text of the first text match inside every
	// item match, in document order. Items without a text match yield "".
	Texts(ctx context.Context, item, text string) ([]string, error)
	// ClickNext follows the pagination link and waits for waitFor to
	// appear. It reports false when there is no link to follow.
	ClickNext(ctx context.Context, next, waitFor string) (bool, error)
}

// chromePage implements Page on a chromedp tab.
type chromePage struct {
	loadTimeout time.Duration
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx, chromedp.Navigate(url))
}

func (p *chromePage) ScrollToBottom(ctx context.Context) error {
	return chromedp.Run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

func (p *chromePage) Texts(ctx context.Context, item, text string) ([]string, error) {
	js := fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).map(e => {
		const t = e.querySelector(%s);
		return t ? t.innerText.trim() : "";
	})`, jsString(item), jsString(text))

	var out []string
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &out)); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *chromePage) ClickNext(ctx context.Context, next, waitFor string) (bool, error) {
	var present bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(next)), &present)); err != nil {
		return false, err
	}
	if !present {
		return false, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.loadTimeout)
	defer cancel()

	err := chromedp.Run(waitCtx,
		chromedp.ScrollIntoView(next, chromedp.ByQuery),
		chromedp.Click(next, chromedp.ByQuery),
		chromedp.WaitVisible(waitFor, chromedp.ByQuery),
	)
	if err != nil {
		return false, err
	}
	return true, nil
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
