package wechat

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/titanous/json5"
)

// AccountRecord is one bot account entry in the directory file: the
// gateway credential and the conversational agent that answers for it.
type AccountRecord struct {
	Wxid    string `json:"wxid"`
	Key     string `json:"key"`
	AgentID string `json:"agent_id"`
}

// Directory is the static per-environment bot account mapping, loaded
// once and read-only afterwards.
type Directory struct {
	records []AccountRecord
}

// LoadDirectory reads the account directory file and selects the given
// environment's records. A missing or malformed file is a configuration
// problem, not a crash: it logs a warning and yields an empty
// directory, leaving the manager with nothing to poll.
func LoadDirectory(path, environment string) *Directory {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("wechat account directory unavailable", "path", path, "error", err)
		return &Directory{}
	}

	var byEnv map[string][]AccountRecord
	if err := json5.Unmarshal(data, &byEnv); err != nil {
		slog.Warn("wechat account directory malformed", "path", path, "error", err)
		return &Directory{}
	}

	records := byEnv[environment]
	if len(records) == 0 {
		slog.Warn("no wechat accounts for environment", "path", path, "environment", environment)
	}
	return &Directory{records: records}
}

// NewDirectory builds a directory from in-memory records (tests,
// onboarding previews).
func NewDirectory(records []AccountRecord) *Directory {
	return &Directory{records: records}
}

// Lookup finds the record whose wxid matches, if any.
func (d *Directory) Lookup(wxid string) (AccountRecord, bool) {
	for _, r := range d.records {
		if r.Wxid == wxid {
			return r, true
		}
	}
	return AccountRecord{}, false
}

// Records returns all entries.
func (d *Directory) Records() []AccountRecord {
	return d.records
}

// Validate reports records without credentials; the gateway rejects
// polls with an empty key, so flag them at startup instead.
func (d *Directory) Validate() error {
	for i, r := range d.records {
		if r.Key == "" || r.Wxid == "" {
			return fmt.Errorf("account record %d incomplete (wxid=%q)", i, r.Wxid)
		}
	}
	return nil
}
