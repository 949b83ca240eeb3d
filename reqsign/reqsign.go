/*
 * COPYRIGHT 2026 Brightgate Inc.  All rights reserved.
 *
 * This copyright notice is Copyright Management Information under 17 USC 1202
 * and is included to protect this work and deter copyright infringement.
 * Removal or alteration of this Copyright Management Information without the
 * express written permission of Brightgate Inc is prohibited, and any
 * such unauthorized removal or alteration will be a violation of federal law.
 */

// Package reqsign computes the HMAC headers the sender attaches to outbound
// collector requests. The registration bootstrap does not use it; its POST
// is unsigned.
package reqsign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

// Header names attached to signed requests.
const (
	HeaderTimestamp = "X-NetWatch-Timestamp"
	HeaderSignature = "X-NetWatch-Signature"
	HeaderToken     = "X-NetWatch-Token"
)

// Sign computes the lowercase-hex HMAC-SHA256 signature of the canonical
// message "method\npath\ntimestamp\nbody" under secret. The timestamp is the
// decimal-string unix-seconds value the caller intends to send; it is up to
// the caller to keep the attached header and the signed value identical.
func Sign(secret, method, path, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(method))
	mac.Write([]byte("\n"))
	mac.Write([]byte(path))
	mac.Write([]byte("\n"))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("\n"))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Apply sets the signature headers on req, given the already-computed
// timestamp. If secret is empty, signing is skipped entirely (req is left
// unsigned, per spec: unsigned requests are a deliberate, documented mode,
// not a failure). If token is non-empty, it is always attached regardless
// of whether the request is signed.
func Apply(req *http.Request, secret, timestamp string, body []byte, token string) {
	if secret != "" {
		sig := Sign(secret, req.Method, req.URL.Path, timestamp, body)
		req.Header.Set(HeaderTimestamp, timestamp)
		req.Header.Set(HeaderSignature, sig)
	}
	if token != "" {
		req.Header.Set(HeaderToken, token)
	}
}
