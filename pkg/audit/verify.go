// Copyright 2026 Pangea Cyber Corporation
//
// Per-event verification and the published-roots cache.
//
// For an event at leaf index i, membership is checked against the current
// root and consistency between the root at size i (the tree just before the
// event) and the root at size i+1 (the tree the event first appeared in).
// Roots come from the publication network when possible, from the server
// when permitted, and are otherwise recorded as absent.

package audit

import (
	"context"
	"sort"

	"github.com/pangeacyber/go-pangea/pkg/arweave"
	"github.com/pangeacyber/go-pangea/pkg/errors"
	"github.com/pangeacyber/go-pangea/pkg/hash"
	"github.com/pangeacyber/go-pangea/pkg/logging"
	"github.com/pangeacyber/go-pangea/pkg/proof"
)

// updatePublishedRoots resolves every tree size the result needs that is
// not already cached. Sizes the publication network cannot supply fall back
// to the server when AllowServerRoots permits; sizes no permitted source
// can supply are cached as absent so they are not re-queried.
func (c *Client) updatePublishedRoots(ctx context.Context, result *SearchResult) {
	needed := make(map[int64]struct{})
	for _, event := range result.Events {
		needed[event.LeafIndex+1] = struct{}{}
		if event.LeafIndex > 0 {
			needed[event.LeafIndex] = struct{}{}
		}
	}
	if result.Root != nil {
		needed[result.Root.Size] = struct{}{}
	}

	var missing []int64
	for size := range needed {
		if _, ok := c.pubRoots[size]; ok {
			c.metrics.RecordRootCacheHit()
			continue
		}
		c.metrics.RecordRootCacheMiss()
		missing = append(missing, size)
	}
	if len(missing) == 0 {
		return
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	published := c.arweave.PublishedRoots(ctx, result.Root.TreeName, missing)
	for size, pub := range published {
		c.pubRoots[size] = rootFromPublished(pub)
		c.metrics.RecordPublishedRootFound()
	}

	if c.cfg.AllowServerRoots {
		for _, size := range missing {
			if ctx.Err() != nil {
				// Cancellation aborts resolution without recording absences.
				return
			}
			if _, ok := c.pubRoots[size]; ok {
				continue
			}
			root, err := c.Root(ctx, size)
			if err != nil {
				// The server could not supply this size either; the size
				// stays absent and the affected events are annotated.
				c.logger.WithError(err).Warn("server root fallback failed",
					logging.Field{Key: "tree_size", Value: size})
				continue
			}
			c.pubRoots[size] = root
			c.metrics.RecordServerRootFallback()
		}
	}

	if ctx.Err() != nil {
		return
	}
	for _, size := range missing {
		if _, ok := c.pubRoots[size]; !ok {
			c.pubRoots[size] = nil
		}
	}
}

// verifyEvent checks one event's membership and consistency proofs. A proof
// that verifies false is an error; a proof that cannot be checked for lack
// of a permitted root only annotates the event, except that StrictConsistency
// makes an unverifiable consistency check an error.
func (c *Client) verifyEvent(event *Event, result *SearchResult) error {
	if err := c.verifyMembership(event, result); err != nil {
		return err
	}
	return c.verifyConsistency(event)
}

func (c *Client) verifyMembership(event *Event, result *SearchResult) error {
	root := c.currentRoot(result)
	if root == nil || (!c.cfg.AllowServerRoots && root.Source != SourceArweave) {
		event.MembershipVerification = StatusUnverifiable
		c.metrics.RecordUnverifiableEvent()
		return nil
	}

	nodeHash, err := hash.DecodeHex(event.Hash)
	if err != nil {
		return err
	}
	rootHash, err := hash.DecodeHex(root.RootHash)
	if err != nil {
		return err
	}
	membership, err := proof.DecodeMembership(event.MembershipProof)
	if err != nil {
		return err
	}

	if !proof.VerifyMembership(nodeHash, rootHash, membership) {
		event.MembershipVerification = StatusFail
		c.metrics.RecordMembershipFailure()
		return errors.New(errors.ErrorCodeMembership, "membership verification failed").
			WithDetailsf("leaf index %d against root of size %d", event.LeafIndex, root.Size)
	}

	event.MembershipVerification = StatusPass
	c.metrics.RecordEventVerified()
	return nil
}

func (c *Client) verifyConsistency(event *Event) error {
	if event.LeafIndex == 0 {
		event.ConsistencyVerification = StatusNone
		return nil
	}

	curr := c.pubRoots[event.LeafIndex+1]
	prev := c.pubRoots[event.LeafIndex]
	if curr == nil || prev == nil {
		event.ConsistencyVerification = StatusUnverifiable
		c.metrics.RecordUnverifiableEvent()
		if c.cfg.StrictConsistency {
			return errors.New(errors.ErrorCodeConsistency, "required root is not available").
				WithDetailsf("leaf index %d needs roots of sizes %d and %d",
					event.LeafIndex, event.LeafIndex, event.LeafIndex+1)
		}
		c.logger.Warn("consistency unverifiable: required root absent",
			logging.Field{Key: "leaf_index", Value: event.LeafIndex})
		return nil
	}

	if !c.cfg.AllowServerRoots && (curr.Source != SourceArweave || prev.Source != SourceArweave) {
		event.ConsistencyVerification = StatusUnverifiable
		c.metrics.RecordUnverifiableEvent()
		return nil
	}

	newRoot, err := hash.DecodeHex(curr.RootHash)
	if err != nil {
		return err
	}
	prevRoot, err := hash.DecodeHex(prev.RootHash)
	if err != nil {
		return err
	}
	consistency, err := proof.DecodeConsistency(curr.ConsistencyProof)
	if err != nil {
		return err
	}

	if !proof.VerifyConsistency(newRoot, prevRoot, consistency) {
		event.ConsistencyVerification = StatusFail
		c.metrics.RecordConsistencyFailure()
		return errors.New(errors.ErrorCodeConsistency, "consistency verification failed").
			WithDetailsf("between tree sizes %d and %d", event.LeafIndex, event.LeafIndex+1)
	}

	event.ConsistencyVerification = StatusPass
	return nil
}

// currentRoot returns the root membership proofs are checked against: the
// cached copy of the response root's size when one was resolved, else the
// server-asserted response root.
func (c *Client) currentRoot(result *SearchResult) *Root {
	if result.Root == nil {
		return nil
	}
	if cached := c.pubRoots[result.Root.Size]; cached != nil {
		return cached
	}
	root := *result.Root
	root.Source = SourcePangea
	return &root
}

// rootSnapshot copies the cache entries relevant to one result page.
func (c *Client) rootSnapshot(result *SearchResult) map[int64]*Root {
	snapshot := make(map[int64]*Root)
	record := func(size int64) {
		if root, ok := c.pubRoots[size]; ok {
			snapshot[size] = root
		}
	}
	for _, event := range result.Events {
		record(event.LeafIndex + 1)
		if event.LeafIndex > 0 {
			record(event.LeafIndex)
		}
	}
	if result.Root != nil {
		record(result.Root.Size)
	}
	return snapshot
}

func rootFromPublished(pub *arweave.PublishedRoot) *Root {
	return &Root{
		Size:             pub.Size,
		RootHash:         pub.RootHash,
		TreeName:         pub.TreeName,
		ConsistencyProof: pub.ConsistencyProof,
		PublishedAt:      pub.PublishedAt,
		URL:              pub.URL,
		Source:           SourceArweave,
	}
}
