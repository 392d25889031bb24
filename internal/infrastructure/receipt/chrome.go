package receipt

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/ferrigb/sistema-nota/internal/domain/entity"
)

// ChromeRenderer prints the HTML receipt to PDF through headless Chrome.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
}

// NewChromeRenderer creates a headless Chrome renderer.
// An empty execPath falls back to CHROME_PATH and the usual install locations.
func NewChromeRenderer(execPath string, timeout time.Duration) *ChromeRenderer {
	if execPath == "" {
		execPath = detectChromePath()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRenderer{execPath: execPath, timeout: timeout}
}

func (ChromeRenderer) ContentType() string { return "application/pdf" }

func (ChromeRenderer) Extension() string { return "pdf" }

func (c *ChromeRenderer) Render(ctx context.Context, r *entity.Receipt) ([]byte, error) {
	html, err := RenderHTML(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdfBuf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches; margins come from the @page rule
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

// detectChromePath checks CHROME_PATH first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
