package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/time/rate"

	"github.com/targetdigest/ietrack/internal/model"
)

// FormatCalAccess names the Cal-Access IE page parser.
const FormatCalAccess = "calaccess"

const (
	calAccessMinCols  = 5
	calAccessColDate  = 0
	calAccessColCmte  = 1
	calAccessColPos   = 2
	calAccessColAmt   = 3
	calAccessColDesc  = 4
	maxPageBytes      = 10 << 20
	breakerTripStreak = 3
)

// CalAccessParser extracts filings from the last table of a Cal-Access
// independent-expenditure page. Rows with fewer than five cells or an
// unreadable amount are skipped.
type CalAccessParser struct {
	BaseURL string // filing links are resolved against this
}

// Format returns the parser name.
func (p *CalAccessParser) Format() string { return FormatCalAccess }

// Parse reads an HTML page and returns its filings. A page without tables
// yields no filings.
func (p *CalAccessParser) Parse(r io.Reader) ([]model.Filing, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", p.BaseURL, err)
	}

	tables := findAll(doc, atom.Table)
	if len(tables) == 0 {
		return nil, nil
	}
	rows := findAll(tables[len(tables)-1], atom.Tr)
	if len(rows) <= 1 {
		return nil, nil
	}

	var filings []model.Filing
	for _, row := range rows[1:] {
		f, ok := parseCalAccessRow(row, base)
		if ok {
			filings = append(filings, f)
		}
	}
	return filings, nil
}

func parseCalAccessRow(row *html.Node, base *url.URL) (model.Filing, bool) {
	cells := findAll(row, atom.Td)
	if len(cells) < calAccessMinCols {
		return model.Filing{}, false
	}

	amount, err := parseAmount(text(cells[calAccessColAmt]))
	if err != nil {
		return model.Filing{}, false
	}

	var link string
	if anchors := findAll(row, atom.A); len(anchors) > 0 {
		if href := attr(anchors[len(anchors)-1], "href"); href != "" {
			if ref, err := url.Parse(href); err == nil {
				link = base.ResolveReference(ref).String()
			}
		}
	}

	return model.Filing{
		RawDate:     text(cells[calAccessColDate]),
		Committee:   text(cells[calAccessColCmte]),
		Position:    model.Position(strings.ToUpper(text(cells[calAccessColPos]))),
		Amount:      amount,
		Description: text(cells[calAccessColDesc]),
		URL:         link,
	}, true
}

// parseAmount reads "$12,345.00" style amounts. Negative amounts are rejected.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative amount %s", d)
	}
	return d, nil
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	walk(n, func(d *html.Node) {
		if d.Type == html.ElementNode && d.DataAtom == a {
			out = append(out, d)
		}
	})
	return out
}

// walk calls fn for every descendant of n in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fn(c)
		walk(c, fn)
	}
}

// text returns the whitespace-collapsed text content of n.
func text(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(d *html.Node) {
		if d.Type == html.TextNode {
			sb.WriteString(d.Data)
			sb.WriteByte(' ')
		}
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// WebOptions configures a Web source.
type WebOptions struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client // optional; built from Timeout when nil
}

// Web fetches IE pages over HTTP. Requests are paced by a token bucket and go
// through a circuit breaker that opens after consecutive failures, so an
// outage fails fast for the remaining trackers of a run.
type Web struct {
	client    *http.Client
	parser    Parser
	userAgent string
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
}

// NewWeb creates a Web source that parses pages with parser.
func NewWeb(parser Parser, opts WebOptions) *Web {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &Web{
		client:    client,
		parser:    parser,
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "calaccess",
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerTripStreak
			},
		}),
	}
}

// Fetch downloads and parses the page at pageURL.
func (w *Web) Fetch(ctx context.Context, pageURL string) ([]model.Filing, error) {
	if err := w.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	res, err := w.breaker.Execute(func() (interface{}, error) {
		return w.get(ctx, pageURL)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	return res.([]model.Filing), nil
}

func (w *Web) get(ctx context.Context, pageURL string) ([]model.Filing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return w.parser.Parse(io.LimitReader(resp.Body, maxPageBytes))
}
