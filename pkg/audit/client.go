// Copyright 2026 Pangea Cyber Corporation
//
// The audit client facade: submits events, searches the log, and verifies
// that returned events belong to the tree and that successive tree roots
// are consistent.
//
// A client is single-threaded: the published-roots cache is private to the
// instance and not synchronized. Run one client per goroutine.

package audit

import (
	"context"
	"encoding/json"

	"github.com/pangeacyber/go-pangea/pkg/arweave"
	"github.com/pangeacyber/go-pangea/pkg/config"
	"github.com/pangeacyber/go-pangea/pkg/errors"
	"github.com/pangeacyber/go-pangea/pkg/logging"
	"github.com/pangeacyber/go-pangea/pkg/metrics"
	"github.com/pangeacyber/go-pangea/pkg/request"
)

const (
	serviceName     = "audit"
	defaultPageSize = 20
)

// SearchOptions are the parameters of one search session. Empty Sources,
// Start, End and Last are omitted from the request; PageSize zero means the
// default of 20.
type SearchOptions struct {
	Query    string
	Sources  []string
	PageSize int64
	Start    string
	End      string
	Last     string

	// Verify enables membership and consistency verification of every
	// returned event.
	Verify bool
}

// Client talks to the audit service.
type Client struct {
	cfg       *config.Config
	logger    *logging.Logger
	metrics   *metrics.Metrics
	transport *request.Client
	arweave   *arweave.Client

	// pubRoots caches published roots by tree size for the lifetime of
	// the client. A key mapped to nil records a size that could not be
	// resolved from any permitted source.
	pubRoots map[int64]*Root

	rootStore *rootStore
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics attaches a metrics bundle.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates an audit client from the given configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:      cfg,
		pubRoots: make(map[int64]*Root),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorCodeConfigInvalid, "invalid log level")
		}
		logCfg := logging.DefaultConfig()
		logCfg.Level = level
		c.logger, err = logging.NewLogger(logCfg)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorCodeConfigInvalid, "cannot initialize logger")
		}
	}
	c.logger = c.logger.WithComponent(serviceName)

	c.transport = request.NewClient(serviceName, cfg, c.logger)
	c.arweave = arweave.NewClient(cfg.ArweaveBaseURL, c.transport, c.logger)

	if cfg.RootStateDir != "" {
		c.rootStore = newRootStore(cfg.RootStateDir, cfg.Token, cfg.ConfigID)
	}

	return c, nil
}

// Log submits one event to the audit trail. The input is filtered to the
// recognized fields; "message" is required. When verify is true the
// server-computed leaf digest is checked against the locally computed
// canonical hash of the submitted record.
func (c *Client) Log(ctx context.Context, event map[string]interface{}, verify bool) (*LogResult, error) {
	record, err := buildRecord(event)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Post(ctx, "log", map[string]interface{}{
		"event":       record,
		"return_hash": true,
	})
	if err != nil {
		return nil, err
	}

	var result LogResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeDecodeFailed, "malformed log result")
	}

	if verify {
		local, err := recordHash(record)
		if err != nil {
			return nil, err
		}
		if local != result.Hash {
			return nil, errors.New(errors.ErrorCodeEventHash, "server hash does not match the canonical event hash").
				WithDetailsf("local %s, server %s", local, result.Hash)
		}
	}

	return &result, nil
}

// Search queries the audit trail. With opts.Verify set, every returned
// event is checked for membership in the current tree and for consistency
// between its prefix root and the current root; events whose required roots
// cannot be resolved are annotated, not rejected.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResults, error) {
	if opts.PageSize == 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.PageSize < 0 {
		return nil, errors.New(errors.ErrorCodeInvalidInput, "page size must be a positive integer")
	}

	body := map[string]interface{}{
		"query":                    opts.Query,
		"page_size":                opts.PageSize,
		"include_membership_proof": true,
		"include_hash":             true,
		"include_root":             true,
	}
	if opts.Start != "" {
		body["start"] = opts.Start
	}
	if opts.End != "" {
		body["end"] = opts.End
	}
	if opts.Last != "" {
		body["last"] = opts.Last
	}
	if len(opts.Sources) > 0 {
		body["sources"] = opts.Sources
	}

	resp, err := c.transport.Post(ctx, "search", body)
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeDecodeFailed, "malformed search result")
	}

	wrapper := newSearchResults(resp, &result, opts)

	if result.Root == nil {
		// All matching records are still in hot storage; there is nothing
		// to verify against yet.
		c.logger.Debug("search response carried no root; events returned unverified")
		return wrapper, nil
	}

	if opts.Verify {
		c.updatePublishedRoots(ctx, &result)
		wrapper.Roots = c.rootSnapshot(&result)

		for _, event := range result.Events {
			if err := c.verifyEvent(event, &result); err != nil {
				return nil, err
			}
		}

		c.persistVerifiedRoot(&result)
	}

	return wrapper, nil
}

// SearchNext fetches the page after prev, reusing its parameters. Returns
// nil when the result set is exhausted.
func (c *Client) SearchNext(ctx context.Context, prev *SearchResults) (*SearchResults, error) {
	next := prev.Next()
	if next == nil {
		return nil, nil
	}
	return c.Search(ctx, *next)
}

// Root requests a tree root from the server: the current root when treeSize
// is zero, otherwise the root at that size. The returned root is marked
// server-sourced.
func (c *Client) Root(ctx context.Context, treeSize int64) (*Root, error) {
	body := map[string]interface{}{}
	if treeSize > 0 {
		body["tree_size"] = treeSize
	}

	resp, err := c.transport.Post(ctx, "root", body)
	if err != nil {
		return nil, err
	}

	var root Root
	if err := json.Unmarshal(resp.Result, &root); err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeDecodeFailed, "malformed root result")
	}
	root.Source = SourcePangea
	return &root, nil
}
