package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/empleoradar/backend/internal/browser"
)

// preparePage applies a randomized desktop identity to a borrowed page.
func preparePage(ctx context.Context, width, height int) error {
	return chromedp.Run(ctx,
		emulation.SetUserAgentOverride(browser.RandomUserAgent()).
			WithAcceptLanguage("es-ES,es;q=0.9,en;q=0.8"),
		chromedp.EmulateViewport(int64(width), int64(height)),
	)
}

// navigate loads a URL and waits for the document body, bounded by timeout.
func navigate(ctx context.Context, url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// attempt runs actions best-effort with a bounded timeout and reports
// whether they succeeded. Used for optional steps (cookie dialogs, lazy
// scrolls) whose failure means "feature absent", never a hard error.
func attempt(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) bool {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return chromedp.Run(stepCtx, actions...) == nil
}

// dismissCookies best-effort clicks the first matching consent button.
func dismissCookies(ctx context.Context, selector string) bool {
	return attempt(ctx, cookieTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
}

// waitAnySelector tries known content selectors in priority order and
// returns the first one that appears. Markup drift on an upstream usually
// kills only the leading selectors.
func waitAnySelector(ctx context.Context, selectors []string, perSelector time.Duration) (string, bool) {
	for _, sel := range selectors {
		if attempt(ctx, perSelector, chromedp.WaitVisible(sel, chromedp.ByQuery)) {
			return sel, true
		}
	}
	return "", false
}

// bodyText returns up to limit characters of the rendered body text, used
// for anti-automation challenge detection.
func bodyText(ctx context.Context, limit int) string {
	var text string
	script := fmt.Sprintf("document.body.innerText.substring(0, %d)", limit)
	if !attempt(ctx, cookieTimeout, chromedp.Evaluate(script, &text)) {
		return ""
	}
	return text
}

// challengeDetected scans visible body text for known anti-bot phrases.
func challengeDetected(ctx context.Context, phrases []string) bool {
	text := bodyText(ctx, 500)
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// pageTitle returns the document title.
func pageTitle(ctx context.Context) string {
	var title string
	if !attempt(ctx, cookieTimeout, chromedp.Title(&title)) {
		return ""
	}
	return title
}

// currentURL returns the page location after navigation and redirects.
func currentURL(ctx context.Context) string {
	var loc string
	if !attempt(ctx, cookieTimeout, chromedp.Location(&loc)) {
		return ""
	}
	return loc
}

// document snapshots the rendered page into a goquery document for
// extraction.
func document(ctx context.Context) (*goquery.Document, error) {
	var html string
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("snapshot page: %w", err)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// scrollBy nudges the page to trigger lazy-loaded cards.
func scrollBy(ctx context.Context, pixels int) {
	attempt(ctx, cookieTimeout,
		chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", pixels), nil),
		chromedp.Sleep(600*time.Millisecond),
	)
}
