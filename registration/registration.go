/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package registration implements the one-shot bootstrap that exchanges a
// human-issued registration code for a persistent bearer token.
package registration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"netwatch/agentcfg"
	"netwatch/network"
)

const requestTimeout = 5 * time.Second

type request struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	RequestID string `json:"requestId"`
}

type response struct {
	Token string `json:"token"`
}

// Bootstrap runs the registration exchange if cfg has no token yet and a
// registration code is configured. On success it mutates cfg.Token and
// rewrites the config file; any failure (network, non-2xx, malformed
// response) is swallowed and the agent continues unauthenticated.
func Bootstrap(cfg *agentcfg.Config) {
	if cfg.Token != "" || cfg.RegistrationCode == "" {
		return
	}

	hostname, err := os.Hostname()
	if err != nil || !network.ValidHostname(hostname) {
		hostname = ""
	}

	body, err := json.Marshal(request{
		Code:      cfg.RegistrationCode,
		Name:      hostname,
		RequestID: uuid.NewString(),
	})
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, cfg.APIBase+"/api/agent/register", bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return
	}
	if r.Token == "" {
		return
	}

	cfg.Token = r.Token
	_ = cfg.Save()
}
