package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer token for authenticated requests. An empty
// token means the request proceeds unauthenticated and the server answers
// 401 where auth is required.
type TokenSource interface {
	Token() string
}

// Descriptor describes one API request: method, target, auth requirement and
// optional JSON body. Its Key identifies the cache slot for GET requests.
type Descriptor struct {
	Method       string
	Path         string
	Query        url.Values
	RequiresAuth bool
	Body         any
}

// Key returns the cache key for this descriptor.
func (d Descriptor) Key() string {
	if len(d.Query) == 0 {
		return d.Method + " " + d.Path
	}
	return d.Method + " " + d.Path + "?" + d.Query.Encode()
}

const (
	defaultAPIBase    = "127.0.0.1:8642"
	defaultUserAgent  = "vitrine/0.1"
	defaultTimeout    = 10 * time.Second
	maxErrorBodyBytes = 64 << 10

	// DefaultRetries and DefaultRetryDelay govern the fixed-delay retry loop
	// for transient failures.
	DefaultRetries    = 3
	DefaultRetryDelay = time.Second
)

// Options configure a Client. Zero values select the defaults above; a
// negative Retries also falls back to DefaultRetries, so pass 0 explicitly
// through a non-negative config value to disable retrying.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	CacheTTL   time.Duration
	RateLimit  float64 // requests per second; 0 disables limiting
	Tokens     TokenSource
	Logger     *slog.Logger
}

// Client talks to the folio HTTP API. It owns a private TTL cache for the
// collection GET endpoints and never shares it with other clients.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	userAgent  string
	retries    int
	retryDelay time.Duration
	limiter    *rate.Limiter
	tokens     TokenSource
	cache      *Cache
	logger     *slog.Logger
}

var (
	projectsDescriptor  = Descriptor{Method: http.MethodGet, Path: "/api/projects"}
	bookmarksDescriptor = Descriptor{Method: http.MethodGet, Path: "/api/bookmarks", RequiresAuth: true}
)

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := opts.Retries
	if retries < 0 {
		retries = DefaultRetries
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:    base,
		http:       &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		retries:    retries,
		retryDelay: retryDelay,
		limiter:    limiter,
		tokens:     opts.Tokens,
		cache:      NewCache(opts.CacheTTL),
		logger:     logger,
	}, nil
}

// ClearCache drops every cached collection.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// FetchProjects returns the full project collection. A valid cache entry
// short-circuits the network unless force is set; a fresh fetch overwrites
// the entry. Missing like counters default to zero.
func (c *Client) FetchProjects(ctx context.Context, force bool) ([]Project, error) {
	key := projectsDescriptor.Key()
	if !force {
		if cached, ok := c.cachedProjects(key); ok {
			return cached, nil
		}
	}
	var payload []Project
	if err := c.do(ctx, projectsDescriptor, &payload); err != nil {
		return nil, err
	}
	for i := range payload {
		payload[i].normalize()
	}
	c.cache.Set(key, cloneProjects(payload))
	return payload, nil
}

// CreateProject creates a project and returns the server copy with its
// assigned id. Requires an admin session server-side.
func (c *Client) CreateProject(ctx context.Context, draft ProjectDraft) (Project, error) {
	var created Project
	d := Descriptor{Method: http.MethodPost, Path: "/api/projects", RequiresAuth: true, Body: draft}
	if err := c.do(ctx, d, &created); err != nil {
		return Project{}, err
	}
	created.normalize()
	c.cache.Clear(projectsDescriptor.Key())
	return created, nil
}

// UpdateProject replaces the writable fields of a project and returns the
// updated server copy.
func (c *Client) UpdateProject(ctx context.Context, id ID, draft ProjectDraft) (Project, error) {
	var updated Project
	d := Descriptor{Method: http.MethodPut, Path: fmt.Sprintf("/api/projects/%d", id), RequiresAuth: true, Body: draft}
	if err := c.do(ctx, d, &updated); err != nil {
		return Project{}, err
	}
	updated.normalize()
	c.cache.Clear(projectsDescriptor.Key())
	return updated, nil
}

// DeleteProject removes a project and returns the deleted id.
func (c *Client) DeleteProject(ctx context.Context, id ID) (ID, error) {
	var payload deleteResponse
	d := Descriptor{Method: http.MethodDelete, Path: fmt.Sprintf("/api/projects/%d", id), RequiresAuth: true}
	if err := c.do(ctx, d, &payload); err != nil {
		return 0, err
	}
	c.cache.Clear(projectsDescriptor.Key())
	if payload.ID != 0 {
		return payload.ID, nil
	}
	return id, nil
}

// UploadProjectImage appends an image to a project's gallery and returns the
// updated image list in display order. The multipart body is not replayable,
// so uploads are never retried.
func (c *Client) UploadProjectImage(ctx context.Context, id ID, filename string, image io.Reader) ([]string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: fmt.Sprintf("/api/projects/%d/images", id)})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, true, writer.FormDataContentType())

	var payload imageListResponse
	if err := c.execute(req, &payload); err != nil {
		return nil, err
	}
	c.cache.Clear(projectsDescriptor.Key())
	return payload.Images, nil
}

// DeleteProjectImage removes the image at the given display index and returns
// the remaining list, order preserved.
func (c *Client) DeleteProjectImage(ctx context.Context, id ID, index int) ([]string, error) {
	var payload imageListResponse
	d := Descriptor{Method: http.MethodDelete, Path: fmt.Sprintf("/api/projects/%d/images/%d", id, index), RequiresAuth: true}
	if err := c.do(ctx, d, &payload); err != nil {
		return nil, err
	}
	c.cache.Clear(projectsDescriptor.Key())
	return payload.Images, nil
}

// FetchBookmarks returns the session user's bookmarks, cached like projects.
func (c *Client) FetchBookmarks(ctx context.Context, force bool) ([]Bookmark, error) {
	key := bookmarksDescriptor.Key()
	if !force {
		if cached, ok := c.cachedBookmarks(key); ok {
			return cached, nil
		}
	}
	var payload []Bookmark
	if err := c.do(ctx, bookmarksDescriptor, &payload); err != nil {
		return nil, err
	}
	for i := range payload {
		payload[i].Project.normalize()
	}
	c.cache.Set(key, cloneBookmarks(payload))
	return payload, nil
}

type bookmarkRequest struct {
	ProjectID ID `json:"projectId"`
}

// AddBookmark likes a project. The response carries the server's new total
// like count. Both collection caches are stale afterwards and get dropped.
func (c *Client) AddBookmark(ctx context.Context, projectID ID) (BookmarkToggle, error) {
	var payload BookmarkToggle
	d := Descriptor{Method: http.MethodPost, Path: "/api/bookmarks", RequiresAuth: true, Body: bookmarkRequest{ProjectID: projectID}}
	if err := c.do(ctx, d, &payload); err != nil {
		return BookmarkToggle{}, err
	}
	c.cache.Clear(projectsDescriptor.Key(), bookmarksDescriptor.Key())
	return payload, nil
}

// RemoveBookmark unlikes the project behind the given bookmark.
func (c *Client) RemoveBookmark(ctx context.Context, bookmarkID ID) (BookmarkToggle, error) {
	var payload BookmarkToggle
	d := Descriptor{Method: http.MethodDelete, Path: fmt.Sprintf("/api/bookmarks/%d", bookmarkID), RequiresAuth: true}
	if err := c.do(ctx, d, &payload); err != nil {
		return BookmarkToggle{}, err
	}
	c.cache.Clear(projectsDescriptor.Key(), bookmarksDescriptor.Key())
	return payload, nil
}

// FetchMe resolves the session identity behind the configured token. Never
// cached: the result feeds the session object, not a collection.
func (c *Client) FetchMe(ctx context.Context) (User, error) {
	var payload User
	d := Descriptor{Method: http.MethodGet, Path: "/api/me", RequiresAuth: true}
	if err := c.do(ctx, d, &payload); err != nil {
		return User{}, err
	}
	return payload, nil
}

// do runs a descriptor with the fixed-delay retry policy. A context abort
// stops the loop immediately and surfaces ctx.Err() with no further attempts.
func (c *Client) do(ctx context.Context, d Descriptor, dest any) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request",
				"method", d.Method, "path", d.Path, "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
		err := c.doOnce(ctx, d, dest)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, d Descriptor, dest any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	rel := &url.URL{Path: d.Path, RawQuery: d.Query.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	contentType := ""
	if d.Body != nil {
		encoded, err := json.Marshal(d.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, d.RequiresAuth, contentType)
	return c.execute(req, dest)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) setHeaders(req *http.Request, requiresAuth bool, contentType string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if requiresAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func (c *Client) execute(req *http.Request, dest any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

func errorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return http.StatusText(resp.StatusCode)
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}

func (c *Client) cachedProjects(key string) ([]Project, bool) {
	if !c.cache.IsValid(key) {
		return nil, false
	}
	cached, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	items, ok := cached.([]Project)
	if !ok {
		return nil, false
	}
	return cloneProjects(items), true
}

func (c *Client) cachedBookmarks(key string) ([]Bookmark, bool) {
	if !c.cache.IsValid(key) {
		return nil, false
	}
	cached, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	items, ok := cached.([]Bookmark)
	if !ok {
		return nil, false
	}
	return cloneBookmarks(items), true
}

func cloneProjects(items []Project) []Project {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Project, len(items))
	copy(dup, items)
	return dup
}

func cloneBookmarks(items []Bookmark) []Bookmark {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Bookmark, len(items))
	copy(dup, items)
	return dup
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
