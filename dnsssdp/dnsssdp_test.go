package dnsssdp

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSSDP(t *testing.T) {
	assert := require.New(t)

	payload := []byte("NOTIFY * HTTP/1.1\r\nSERVER: Foo/1.0\r\nST: upnp:rootdevice\r\nUSN: uuid:abc\r\n\r\n")
	f := ParseSSDP(payload)

	assert.Equal("Foo/1.0", f.Server)
	assert.Equal("upnp:rootdevice", f.ST)
	assert.Equal("uuid:abc", f.USN)
}

func TestParseSSDPCaseInsensitiveKeysLastWins(t *testing.T) {
	assert := require.New(t)

	payload := []byte("server: First\r\nSERVER: Second\r\nst: Y\r\n")
	f := ParseSSDP(payload)

	assert.Equal("Second", f.Server)
	assert.Equal("Y", f.ST)
}

func TestParseSSDPIgnoresLinesWithoutColon(t *testing.T) {
	assert := require.New(t)

	payload := []byte("NOTIFY * HTTP/1.1\r\nSERVER: X\r\n")
	f := ParseSSDP(payload)
	assert.Equal("X", f.Server)
	assert.Equal("", f.ST)
}

// encodeName writes an uncompressed DNS name with no trailing pointer.
func encodeName(labels ...string) []byte {
	var out []byte
	for _, l := range labels {
		out = append(out, byte(len(l)))
		out = append(out, []byte(l)...)
	}
	out = append(out, 0)
	return out
}

func buildQuery(name string, labels []string, qtype uint16) []byte {
	header := make([]byte, 12)
	binary.BigEndian.PutUint16(header[4:6], 1) // QDCOUNT
	msg := append([]byte{}, header...)
	msg = append(msg, encodeName(labels...)...)
	qt := make([]byte, 4)
	binary.BigEndian.PutUint16(qt[0:2], qtype)
	msg = append(msg, qt...)
	return msg
}

func TestParseDNSServicesPTRQuery(t *testing.T) {
	assert := require.New(t)

	labels := []string{"_services", "_dns-sd", "_udp", "local"}
	msg := buildQuery("", labels, 12) // PTR

	f := ParseDNS(msg)
	assert.Equal("_services._dns-sd._udp.local", f.Name)
	assert.Equal("PTR", f.RType)
}

func TestParseDNSUnknownTypeRendersTYPEn(t *testing.T) {
	assert := require.New(t)

	msg := buildQuery("", []string{"host", "local"}, 65280)
	f := ParseDNS(msg)
	assert.Equal("host.local", f.Name)
	assert.Equal("TYPE65280", f.RType)
}

// TestParseDNSKnownMnemonicTypeStillRendersTYPEn guards against reaching for
// a DNS library's own type-to-mnemonic table for the fallback case: this
// agent only special-cases {A,PTR,TXT,AAAA,SRV}, so any other type code —
// even one with a well-known name elsewhere, like NS or NSEC — must still
// render as TYPEn.
func TestParseDNSKnownMnemonicTypeStillRendersTYPEn(t *testing.T) {
	assert := require.New(t)

	msg := buildQuery("", []string{"host", "local"}, 2) // NS
	f := ParseDNS(msg)
	assert.Equal("TYPE2", f.RType)

	msg = buildQuery("", []string{"host", "local"}, 15) // MX
	f = ParseDNS(msg)
	assert.Equal("TYPE15", f.RType)

	msg = buildQuery("", []string{"host", "local"}, 47) // NSEC
	f = ParseDNS(msg)
	assert.Equal("TYPE47", f.RType)
}

func TestParseDNSTooShortHeaderReturnsEmpty(t *testing.T) {
	assert := require.New(t)
	f := ParseDNS(make([]byte, 4))
	assert.Equal(DNSFields{}, f)
}

func TestParseDNSCompressionPointer(t *testing.T) {
	assert := require.New(t)

	// ANCOUNT=1, no question. The name at offset 12 (where the decoder
	// always starts) is a pointer to offset 14, where the real labels live.
	header := make([]byte, 12)
	binary.BigEndian.PutUint16(header[6:8], 1) // ANCOUNT

	msg := append([]byte{}, header...)
	msg = append(msg, 0xC0, 0x0E) // offset 12: pointer to offset 14
	msg = append(msg, encodeName("host", "local")...)
	msg = append(msg, make([]byte, 10)...) // RR preamble: type/class/ttl/rdlength

	f := ParseDNS(msg)
	assert.Equal("host.local", f.Name)
}

func TestParseDNSTruncatedNameReturnsLabelsCollectedSoFar(t *testing.T) {
	assert := require.New(t)

	header := make([]byte, 12)
	binary.BigEndian.PutUint16(header[4:6], 1) // QDCOUNT

	msg := append([]byte{}, header...)
	msg = append(msg, encodeName("host")...) // one full label, no more
	msg = msg[:len(msg)-1]                   // drop the terminating zero byte
	msg = append(msg, 5, 'l', 'o', 'c')      // a second label claiming 5 bytes, only 3 present

	f := ParseDNS(msg)
	assert.Equal("host", f.Name)
	assert.Equal("", f.RType)
}

func TestParseDNSPointerLoopBounded(t *testing.T) {
	assert := require.New(t)

	header := make([]byte, 12)
	binary.BigEndian.PutUint16(header[4:6], 1)
	msg := append([]byte{}, header...)
	// A pointer at offset 12 that points to itself: must terminate, not hang.
	msg = append(msg, 0xC0, 0x0C)

	f := ParseDNS(msg)
	assert.Equal(DNSFields{}, f)
}
