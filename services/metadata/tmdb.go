package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vixstream/models"
)

const (
	defaultTMDBBaseURL = "https://api.themoviedb.org/3"
	defaultLanguage    = "it-IT"

	// Detail and listing payloads are small; this only guards against a
	// misbehaving endpoint.
	maxBodyBytes = 4 << 20
)

// ListingKind names one of the metadata service's curated list endpoints.
type ListingKind string

const (
	ListingOnTheAir   ListingKind = "on_the_air"
	ListingNowPlaying ListingKind = "now_playing"
	ListingPopular    ListingKind = "popular"
	ListingTopRated   ListingKind = "top_rated"
)

// TMDBClient is a minimal client for the metadata service. It is safe for
// concurrent use.
type TMDBClient struct {
	apiKey     string
	language   string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// TMDBOption configures a TMDBClient.
type TMDBOption func(*TMDBClient)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) TMDBOption {
	return func(c *TMDBClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLanguage sets the language parameter sent on every request.
func WithLanguage(lang string) TMDBOption {
	return func(c *TMDBClient) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) TMDBOption {
	return func(c *TMDBClient) { c.httpClient = hc }
}

// NewTMDBClient creates a client using the given API credential.
func NewTMDBClient(apiKey string, opts ...TMDBOption) *TMDBClient {
	c := &TMDBClient{
		apiKey:     apiKey,
		language:   defaultLanguage,
		baseURL:    defaultTMDBBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        slog.Default().With("component", "tmdb"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type detailsResponse struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"`
	OriginalName string         `json:"original_name"`
	Title        string         `json:"title"`
	FirstAirDate string         `json:"first_air_date"`
	ReleaseDate  string         `json:"release_date"`
	VoteAverage  float64        `json:"vote_average"`
	PosterPath   string         `json:"poster_path"`
	Genres       []models.Genre `json:"genres"`
}

type listingResponse struct {
	Results []struct {
		ID int `json:"id"`
	} `json:"results"`
}

type genresResponse struct {
	Genres []models.Genre `json:"genres"`
}

// SeriesDetails fetches one series' metadata by id.
func (c *TMDBClient) SeriesDetails(ctx context.Context, id int) (models.SeriesRecord, error) {
	var resp detailsResponse
	if err := c.getJSON(ctx, "/tv/"+strconv.Itoa(id), nil, &resp); err != nil {
		return models.SeriesRecord{}, err
	}
	return models.SeriesRecord{
		ID:           resp.ID,
		Name:         resp.Name,
		OriginalName: resp.OriginalName,
		FirstAirDate: resp.FirstAirDate,
		VoteAverage:  resp.VoteAverage,
		PosterPath:   resp.PosterPath,
		GenreIDs:     genreIDs(resp.Genres),
	}, nil
}

// MovieDetails fetches one movie's metadata by id.
func (c *TMDBClient) MovieDetails(ctx context.Context, id int) (models.MovieRecord, error) {
	var resp detailsResponse
	if err := c.getJSON(ctx, "/movie/"+strconv.Itoa(id), nil, &resp); err != nil {
		return models.MovieRecord{}, err
	}
	return models.MovieRecord{
		ID:          resp.ID,
		Title:       resp.Title,
		ReleaseDate: resp.ReleaseDate,
		VoteAverage: resp.VoteAverage,
		PosterPath:  resp.PosterPath,
		GenreIDs:    genreIDs(resp.Genres),
	}, nil
}

// SeriesListing returns the series ids of one curated listing page, in the
// service's order.
func (c *TMDBClient) SeriesListing(ctx context.Context, kind ListingKind, page int) ([]int, error) {
	return c.listing(ctx, "/tv/"+string(kind), page)
}

// MovieListing returns the movie ids of one curated listing page, in the
// service's order.
func (c *TMDBClient) MovieListing(ctx context.Context, kind ListingKind, page int) ([]int, error) {
	return c.listing(ctx, "/movie/"+string(kind), page)
}

func (c *TMDBClient) listing(ctx context.Context, path string, page int) ([]int, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var resp listingResponse
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(resp.Results))
	for _, r := range resp.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// SeriesGenres returns the TV genre mapping in the service's response order.
func (c *TMDBClient) SeriesGenres(ctx context.Context) ([]models.Genre, error) {
	var resp genresResponse
	if err := c.getJSON(ctx, "/genre/tv/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// MovieGenres returns the movie genre mapping in the service's response order.
func (c *TMDBClient) MovieGenres(ctx context.Context) ([]models.Genre, error) {
	var resp genresResponse
	if err := c.getJSON(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// getJSON performs one GET against the API. The credential travels as a
// query parameter, so transport errors may embed it; callers redact before
// logging.
func (c *TMDBClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tmdb: get %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("tmdb: decode %s: %w", path, err)
	}
	return nil
}

func genreIDs(genres []models.Genre) []int {
	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}
