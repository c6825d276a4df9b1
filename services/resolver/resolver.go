// Package resolver turns a known-available episode or movie into a playable
// stream URL by scraping the streaming service's embed player pages. A miss
// is an expected outcome, not an error: the pipeline simply omits whatever
// it cannot resolve.
package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"vixstream/models"
)

const maxPageBytes = 4 << 20

// The player embeds its stream parameters in the first inline script of the
// page body. canPlayFHD is a literal flag in the same script.
var (
	tokenPattern   = regexp.MustCompile(`'token':\s*'(\w+)'`)
	expiresPattern = regexp.MustCompile(`'expires':\s*'(\d+)'`)
	urlPattern     = regexp.MustCompile(`url:\s*'([^']+)'`)
	iframePattern  = regexp.MustCompile(`iframe\s+src="([^"]+)"`)
)

const fhdMarker = "window.canPlayFHD = true"

// Resolver scrapes player pages for one streaming service.
type Resolver struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewResolver creates a resolver for the given service base URL.
func NewResolver(baseURL string, timeout time.Duration, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("component", "resolver"),
	}
}

// ResolveEpisode returns the stream URL for one episode, or false when the
// player page yields none. The episode player requires a Referer matching
// the public watch page. A page whose body carries no inline script may
// embed a nested player iframe instead; that is followed exactly one hop.
func (r *Resolver) ResolveEpisode(ctx context.Context, key models.EpisodeKey) (string, bool) {
	playerURL := fmt.Sprintf("%s/iframe/%d/%d/%d", r.baseURL, key.SeriesID, key.Season, key.Episode)
	referer := fmt.Sprintf("%s/tv/%d/%d/%d", r.baseURL, key.SeriesID, key.Season, key.Episode)

	page, err := r.fetch(ctx, playerURL, referer)
	if err != nil {
		r.log.Debug("episode player fetch failed",
			"series", key.SeriesID, "season", key.Season, "episode", key.Episode, "error", err)
		return "", false
	}

	script, present := firstBodyScript(page)
	if present && script != "" {
		return extractStream(script)
	}

	nestedURL, ok := iframeSrc(page)
	if !ok {
		return "", false
	}
	nested, err := r.fetch(ctx, nestedURL, playerURL)
	if err != nil {
		r.log.Debug("nested player fetch failed", "url", nestedURL, "error", err)
		return "", false
	}
	script, present = firstBodyScript(nested)
	if !present || script == "" {
		return "", false
	}
	return extractStream(script)
}

// ResolveMovie returns the stream URL for one movie, or false when the
// player page yields none. The movie player needs no Referer and has no
// nested iframe form.
func (r *Resolver) ResolveMovie(ctx context.Context, id int) (string, bool) {
	playerURL := fmt.Sprintf("%s/movie/%d/?lang=it", r.baseURL, id)

	page, err := r.fetch(ctx, playerURL, "")
	if err != nil {
		r.log.Debug("movie player fetch failed", "movie", id, "error", err)
		return "", false
	}

	script, present := firstBodyScript(page)
	if !present || script == "" {
		return "", false
	}
	return extractStream(script)
}

func (r *Resolver) fetch(ctx context.Context, pageURL, referer string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("resolver: build request %s: %w", pageURL, err)
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolver: get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolver: get %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("resolver: read %s: %w", pageURL, err)
	}
	return string(body), nil
}

// extractStream pulls token, expiry and server URL out of the player script
// and assembles the stream URL. All three parameters must be present. The
// server URL already carrying a ?b=1 query gets the parameters appended,
// otherwise they start the query. The FHD flag appends h=1 last.
func extractStream(script string) (string, bool) {
	token := firstGroup(tokenPattern, script)
	expires := firstGroup(expiresPattern, script)
	serverURL := firstGroup(urlPattern, script)
	if token == "" || expires == "" || serverURL == "" {
		return "", false
	}

	var stream string
	if strings.Contains(serverURL, "?b=1") {
		stream = serverURL + "&token=" + token + "&expires=" + expires
	} else {
		stream = serverURL + "?token=" + token + "&expires=" + expires
	}
	if strings.Contains(script, fhdMarker) {
		stream += "&h=1"
	}
	return stream, true
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// firstBodyScript returns the text of the first script element inside the
// document body. The second return reports whether such an element exists
// at all; an existing but empty script returns ("", true).
func firstBodyScript(page string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", false
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return "", false
	}
	script := findElement(body, atom.Script)
	if script == nil {
		return "", false
	}
	var sb strings.Builder
	for c := script.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String(), true
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func iframeSrc(page string) (string, bool) {
	src := firstGroup(iframePattern, page)
	return src, src != ""
}
