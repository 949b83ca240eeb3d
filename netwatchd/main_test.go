package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"netwatch/agentcfg"
)

func TestListenerEnabled(t *testing.T) {
	assert := require.New(t)

	cfg := agentcfg.Config{EnableMdns: true, EnableLlmnr: false, EnableSsdp: true}

	assert.True(listenerEnabled(cfg, "mdns"))
	assert.False(listenerEnabled(cfg, "llmnr"))
	assert.True(listenerEnabled(cfg, "ssdp-passive"))
	assert.False(listenerEnabled(cfg, "unknown"))
}
