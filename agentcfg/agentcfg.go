/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package agentcfg loads and persists the agent's JSON configuration file.
// Loading fills in defaults for any missing key, mirroring the way the
// teacher's daemons tolerate an absent or partial config rather than
// failing startup. Rewriting (used once, by the registration bootstrap, to
// persist a newly issued token) writes to a temp file and renames it into
// place, the same write-then-rename discipline common/urlfetch.FetchURL
// uses for downloaded files.
package agentcfg

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// EnvVar names the environment variable that selects the config file path.
const EnvVar = "NETWATCH_AGENT_CONFIG"

// DefaultPath is used when EnvVar is unset.
const DefaultPath = "config.json"

// Config is the agent's full set of tunables, loaded once at startup.
type Config struct {
	APIBase          string `json:"apiBase"`
	Token            string `json:"token"`
	HMACSecret       string `json:"hmacSecret"`
	RegistrationCode string `json:"registrationCode"`

	IntervalSeconds int `json:"intervalSeconds"`

	StatusHost string `json:"statusHost"`
	StatusPort int    `json:"statusPort"`

	EnableMdns     bool `json:"enableMdns"`
	EnableLlmnr    bool `json:"enableLlmnr"`
	EnableSsdp     bool `json:"enableSsdp"`
	EnableArpTable bool `json:"enableArpTable"`

	ArpIntervalSeconds int `json:"arpIntervalSeconds"`

	EnableDhcpLease bool   `json:"enableDhcpLease"`
	DhcpLeasePath   string `json:"dhcpLeasePath"`

	UpdateCheckFile            string `json:"updateCheckFile"`
	UpdateCheckIntervalSeconds int    `json:"updateCheckIntervalSeconds"`

	QueueMax             int `json:"queueMax"`
	BatchSize            int `json:"batchSize"`
	BatchIntervalSeconds int `json:"batchIntervalSeconds"`

	// path is not serialized; it remembers where this Config was loaded
	// from, so Save can rewrite the same file.
	path string `json:"-"`
}

// defaults returns a Config with every field set to the value in spec.md
// §6's defaults table.
func defaults() Config {
	return Config{
		APIBase:                    "http://localhost:5000",
		IntervalSeconds:            30,
		StatusHost:                 "127.0.0.1",
		StatusPort:                 8787,
		EnableMdns:                 true,
		EnableLlmnr:                true,
		EnableSsdp:                 true,
		EnableArpTable:             true,
		ArpIntervalSeconds:         60,
		EnableDhcpLease:            false,
		DhcpLeasePath:              "/var/lib/dhcp/dhcpd.leases",
		UpdateCheckIntervalSeconds: 300,
		QueueMax:                   1000,
		BatchSize:                  50,
		BatchIntervalSeconds:       2,
	}
}

// ConfigPath returns the config file path named by EnvVar, or DefaultPath if
// unset.
func ConfigPath() string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the config file at path, filling in defaults for any field
// the file omits (or for every field, if the file doesn't exist at all).
func Load(path string) (Config, error) {
	cfg := defaults()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}

	// Unmarshal into a Config that already holds the defaults: JSON
	// decoding only overwrites the keys present in the file, leaving the
	// defaults in place for anything omitted.
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	cfg.path = path

	return cfg, nil
}

// Save rewrites the config file this Config was loaded from, atomically:
// it writes to a temp file in the same directory and renames it into
// place, so a crash mid-write never leaves a truncated config behind.
func (c Config) Save() error {
	if c.path == "" {
		return errors.New("config has no associated path")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "renaming %s to %s", tmp, c.path)
	}

	return nil
}
