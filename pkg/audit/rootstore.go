// Copyright 2026 Pangea Cyber Corporation
//
// Persistence of the last verified root. The file name is derived from the
// token and config ID so distinct identities never share state. A stored
// root larger than the root the server now presents is a regression worth
// flagging.

package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pangeacyber/go-pangea/pkg/errors"
	"github.com/pangeacyber/go-pangea/pkg/hash"
	"github.com/pangeacyber/go-pangea/pkg/logging"
)

type storedRoot struct {
	Size     int64     `json:"size"`
	RootHash string    `json:"root_hash"`
	TreeName string    `json:"tree_name"`
	SavedAt  time.Time `json:"saved_at"`
}

type rootStore struct {
	path string
}

// newRootStore derives the state file path for one client identity.
func newRootStore(dir, token, configID string) *rootStore {
	name := hash.EncodeHex(hash.Bytes([]byte(token+"-"+configID))) + ".json"
	return &rootStore{path: filepath.Join(dir, name)}
}

// Load reads the last saved root. A missing file is not an error; both
// return values are nil.
func (s *rootStore) Load() (*storedRoot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeInternal, "cannot read root state")
	}

	var root storedRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeInternal, "corrupt root state")
	}
	return &root, nil
}

// Save writes the root as the new last-verified state.
func (s *rootStore) Save(root *Root) error {
	data, err := json.Marshal(storedRoot{
		Size:     root.Size,
		RootHash: root.RootHash,
		TreeName: root.TreeName,
		SavedAt:  time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorCodeInternal, "cannot encode root state")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrap(err, errors.ErrorCodeInternal, "cannot create root state directory")
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(err, errors.ErrorCodeInternal, "cannot write root state")
	}
	return nil
}

// persistVerifiedRoot records the response root after a verified search and
// warns when the server presents a smaller tree than previously seen.
func (c *Client) persistVerifiedRoot(result *SearchResult) {
	if c.rootStore == nil || result.Root == nil {
		return
	}

	previous, err := c.rootStore.Load()
	if err != nil {
		c.logger.WithError(err).Warn("cannot load persisted root state")
	}
	if previous != nil && previous.TreeName == result.Root.TreeName && result.Root.Size < previous.Size {
		c.logger.Warn("server presented a smaller tree than previously verified",
			logging.Field{Key: "previous_size", Value: previous.Size},
			logging.Field{Key: "current_size", Value: result.Root.Size})
	}

	if err := c.rootStore.Save(result.Root); err != nil {
		c.logger.WithError(err).Warn("cannot persist root state")
	}
}
