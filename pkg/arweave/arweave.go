// Copyright 2026 Pangea Cyber Corporation
//
// Package arweave queries the root-publication network for independently
// published tree roots. Roots are discovered through the gateway's GraphQL
// endpoint by tree name and size tags, then fetched one transaction at a
// time.
package arweave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pangeacyber/go-pangea/pkg/logging"
	"github.com/pangeacyber/go-pangea/pkg/request"
)

// pendingBody is returned by the gateway for transactions that have not yet
// been confirmed. Such roots are skipped.
const pendingBody = "Pending"

// PublishedRoot is the root record as published to the network.
type PublishedRoot struct {
	Size             int64    `json:"size"`
	RootHash         string   `json:"root_hash"`
	TreeName         string   `json:"tree_name"`
	ConsistencyProof []string `json:"consistency_proof"`
	PublishedAt      string   `json:"published_at"`
	URL              string   `json:"url"`
}

// Client reads published roots from one gateway.
type Client struct {
	baseURL   string
	transport *request.Client
	logger    *logging.Logger
}

// NewClient creates a publication-network client using the given transport
// for outbound requests.
func NewClient(baseURL string, transport *request.Client, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: transport,
		logger:    logger.WithComponent("arweave"),
	}
}

// TransactionURL returns the content URL for a transaction ID.
func (c *Client) TransactionURL(id string) string {
	return fmt.Sprintf("%s/%s/", c.baseURL, id)
}

func (c *Client) graphqlURL() string {
	return c.baseURL + "/graphql"
}

type graphqlResponse struct {
	Data struct {
		Transactions struct {
			Edges []struct {
				Node struct {
					ID   string `json:"id"`
					Tags []struct {
						Name  string `json:"name"`
						Value string `json:"value"`
					} `json:"tags"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"transactions"`
	} `json:"data"`
}

// PublishedRoots fetches the published roots of a tree for the given sizes.
// The returned map contains only the sizes that could be resolved; failures
// are logged and never abort the query, and a failed query yields an empty
// map so the caller can fall back to other sources.
func (c *Client) PublishedRoots(ctx context.Context, treeName string, treeSizes []int64) map[int64]*PublishedRoot {
	roots := make(map[int64]*PublishedRoot)
	if len(treeSizes) == 0 {
		return roots
	}

	c.logger.Debug("querying publication network",
		logging.Field{Key: "tree_name", Value: treeName},
		logging.Field{Key: "tree_sizes", Value: treeSizes})

	body, status, err := c.transport.PostRaw(ctx, c.graphqlURL(), map[string]string{
		"query": transactionsQuery(treeName, treeSizes),
	})
	if err != nil || status != http.StatusOK {
		c.logger.WithError(err).Error("publication network query failed",
			logging.Field{Key: "status_code", Value: status})
		return roots
	}

	var resp graphqlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.WithError(err).Error("malformed publication network response")
		return roots
	}

	for _, edge := range resp.Data.Transactions.Edges {
		var treeSize string
		for _, tag := range edge.Node.Tags {
			if tag.Name == "tree_size" {
				treeSize = tag.Value
				break
			}
		}

		root, size, err := c.fetchRoot(ctx, edge.Node.ID, treeSize)
		if err != nil {
			c.logger.WithError(err).Error("cannot decode published root",
				logging.Field{Key: "tree_size", Value: treeSize})
			continue
		}
		if root != nil {
			roots[size] = root
		}
	}
	return roots
}

// fetchRoot retrieves one transaction body. A nil root with nil error means
// the transaction is still pending.
func (c *Client) fetchRoot(ctx context.Context, id, treeSize string) (*PublishedRoot, int64, error) {
	var size int64
	if _, err := fmt.Sscanf(treeSize, "%d", &size); err != nil {
		return nil, 0, fmt.Errorf("transaction %s has no usable tree_size tag: %w", id, err)
	}

	body, status, err := c.transport.GetRaw(ctx, c.TransactionURL(id))
	if err != nil {
		return nil, 0, err
	}
	if status != http.StatusOK {
		return nil, 0, fmt.Errorf("fetching published root for size %d: status %d", size, status)
	}
	if string(body) == pendingBody {
		c.logger.Warn("published root is pending", logging.Field{Key: "tree_size", Value: size})
		return nil, 0, nil
	}

	var root PublishedRoot
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, 0, err
	}
	return &root, size, nil
}

// transactionsQuery renders the GraphQL document selecting transactions
// tagged with the tree name and any of the given sizes.
func transactionsQuery(treeName string, treeSizes []int64) string {
	values := make([]string, len(treeSizes))
	for i, size := range treeSizes {
		values[i] = fmt.Sprintf("%q", fmt.Sprint(size))
	}

	return fmt.Sprintf(`{
    transactions(
      tags: [
            {
                name: "tree_size"
                values: [%s]
            },
            {
                name: "tree_name"
                values: [%q]
            }
        ]
    ) {
        edges {
            node {
                id
                tags {
                    name
                    value
                }
            }
        }
    }
}`, strings.Join(values, ", "), treeName)
}
