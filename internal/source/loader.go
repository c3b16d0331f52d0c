// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/glrun/glrun/internal/issue"
)

const (
	// DefaultMaxBytes bounds the size of a script read from disk or the network (10 MiB).
	DefaultMaxBytes int64 = 10 << 20

	// DefaultTimeout bounds a single remote fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every remote fetch.
	DefaultUserAgent = "glrun/dev"
)

// ErrTooLarge is returned when a script exceeds the configured size limit.
var ErrTooLarge = errors.New("script exceeds size limit")

type (
	// StatusError reports a non-2xx response from a script server.
	StatusError struct {
		StatusCode int
		Status     string
	}

	// Loader reads scripts from files and URLs.
	Loader struct {
		httpClient *http.Client
		maxBytes   int64
		userAgent  string
		timeout    time.Duration
		logger     *log.Logger
	}

	// Option configures a Loader.
	Option func(*Loader)
)

func (e *StatusError) Error() string {
	return "unexpected status " + e.Status
}

// WithHTTPClient sets the client used for remote fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.httpClient = c
	}
}

// WithMaxBytes sets the size limit. Non-positive values keep the default.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header for remote fetches.
func WithUserAgent(ua string) Option {
	return func(l *Loader) {
		l.userAgent = ua
	}
}

// WithTimeout sets the per-fetch timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader with defaults: http.DefaultClient, DefaultMaxBytes,
// DefaultUserAgent and DefaultTimeout.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		httpClient: http.DefaultClient,
		maxBytes:   DefaultMaxBytes,
		userAgent:  DefaultUserAgent,
		timeout:    DefaultTimeout,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsURL reports whether ref is an absolute http or https URL.
func IsURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

// Load returns the script text referenced by ref.
func (l *Loader) Load(ctx context.Context, ref string) (string, error) {
	if IsURL(ref) {
		return l.fetch(ctx, ref)
	}
	return l.readFile(ref)
}

func (l *Loader) readFile(path string) (string, error) {
	l.logger.Debug("reading script", "path", path)

	f, err := os.Open(path)
	if err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("read script").
			WithResource(path).
			WithGuide(issue.ScriptNotFoundId).
			Wrap(err)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			ctx.WithSuggestion("Check the path for typos; relative paths start at the current directory")
		case errors.Is(err, fs.ErrPermission):
			ctx.WithSuggestion("Make the file readable by the current user")
		}
		return "", ctx.BuildError()
	}
	defer f.Close()

	if info, statErr := f.Stat(); statErr == nil && info.IsDir() {
		return "", issue.NewErrorContext().
			WithOperation("read script").
			WithResource(path).
			WithSuggestion("Pass the script file, not its directory").
			WithGuide(issue.ScriptNotFoundId).
			Wrap(errors.New("is a directory")).
			BuildError()
	}

	data, err := l.readLimited(f)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("read script").
			WithResource(path).
			WithGuide(issue.ScriptNotFoundId).
			Wrap(err).
			BuildError()
	}
	return string(data), nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (string, error) {
	l.logger.Debug("fetching script", "url", rawURL)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	fail := func(err error, suggestions ...string) error {
		return issue.NewErrorContext().
			WithOperation("fetch script").
			WithResource(rawURL).
			WithSuggestions(suggestions...).
			WithGuide(issue.ScriptFetchFailedId).
			Wrap(err).
			BuildError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fail(err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fail(err, fmt.Sprintf("The server did not answer within %s; raise fetch.timeout", l.timeout))
		}
		return "", fail(err, "Check your network connection and the URL")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fail(&StatusError{StatusCode: resp.StatusCode, Status: resp.Status},
			"Open the URL in a browser and confirm it serves the raw script")
	}

	data, err := l.readLimited(resp.Body)
	if err != nil {
		return "", fail(err, "Raise fetch.max_bytes if the script is expected to be this large")
	}
	l.logger.Debug("fetched script", "url", rawURL, "bytes", len(data))
	return string(data), nil
}

// readLimited reads at most maxBytes and reports ErrTooLarge when more is available.
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, l.maxBytes)
	}
	return data, nil
}
