package tlsrecord

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"
)

type memCache map[string]*SessionState

func (c memCache) Get(key string) (*SessionState, bool) {
	s, ok := c[key]
	return s, ok
}

func (c memCache) Put(key string, state *SessionState) {
	if state == nil {
		delete(c, key)
		return
	}
	c[key] = state
}

func selfSignedCert(t *testing.T, commonName string, notAfter time.Time) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    notAfter.Add(-24 * time.Hour),
		NotAfter:     notAfter,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	return der
}

func fixedClock(t int64) Clock { return func() int64 { return t } }

func TestLoadSessionCacheMiss(t *testing.T) {
	loader := NewSessionLoader(memCache{}, fixedClock(1000))
	hello := &ClientHelloMsg{SupportedVersions: []uint16{tls13}}
	cfg := &Config{ServerName: "example.com"}

	if err := loader.LoadSession(hello, cfg, &ConnState{}, "1.2.3.4:443"); err != nil {
		t.Fatal(err)
	}
	if !hello.TicketSupported {
		t.Fatal("TicketSupported should always be set")
	}
	if len(hello.PSKModes) != 1 || hello.PSKModes[0] != 0x01 {
		t.Fatalf("PSKModes = %v, want [0x01]", hello.PSKModes)
	}
	if len(hello.PSKIdentities) != 0 {
		t.Fatal("no cache entry, expected no PSK identities")
	}
}

func TestLoadSessionSkipsOnRetry(t *testing.T) {
	cert := selfSignedCert(t, "example.com", time.Unix(10000, 0))
	cache := memCache{"example.com": {
		Version:          tls13,
		SessionTicket:    []byte("ticket"),
		PeerCertificates: [][]byte{cert},
		UseBy:            10000,
		ReceivedAt:       500,
	}}
	loader := NewSessionLoader(cache, fixedClock(1000))
	hello := &ClientHelloMsg{SupportedVersions: []uint16{tls13}}
	cfg := &Config{ServerName: "example.com"}

	if err := loader.LoadSession(hello, cfg, &ConnState{Handshakes: 1}, ""); err != nil {
		t.Fatal(err)
	}
	if len(hello.PSKIdentities) != 0 {
		t.Fatal("handshake retry must not load a ticket")
	}
}

func TestLoadSessionTLS13AppendsPSKIdentity(t *testing.T) {
	cert := selfSignedCert(t, "example.com", time.Unix(10000, 0))
	cache := memCache{"example.com": {
		Version:          tls13,
		SessionTicket:    []byte("the-ticket"),
		PeerCertificates: [][]byte{cert},
		UseBy:            10000,
		ReceivedAt:       500,
		AgeAdd:           42,
	}}
	loader := NewSessionLoader(cache, fixedClock(1000))
	hello := &ClientHelloMsg{SupportedVersions: []uint16{tls13}}
	cfg := &Config{ServerName: "example.com"}

	if err := loader.LoadSession(hello, cfg, &ConnState{}, ""); err != nil {
		t.Fatal(err)
	}
	if len(hello.PSKIdentities) != 1 {
		t.Fatalf("got %d PSK identities, want 1", len(hello.PSKIdentities))
	}
	id := hello.PSKIdentities[0]
	if string(id.Label) != "the-ticket" {
		t.Fatalf("Label = %q, want %q", id.Label, "the-ticket")
	}
	if want := uint32(1000-500) + 42; id.ObfuscatedTicketAge != want {
		t.Fatalf("ObfuscatedTicketAge = %d, want %d", id.ObfuscatedTicketAge, want)
	}
	if _, stillCached := cache.Get("example.com"); !stillCached {
		t.Fatal("a valid entry must not be evicted")
	}
}

func TestLoadSessionTLS12CopiesTicketWhenSuiteOffered(t *testing.T) {
	cert := selfSignedCert(t, "example.com", time.Unix(10000, 0))
	cache := memCache{"example.com": {
		Version:          tls12,
		CipherSuite:      0xC02F,
		SessionTicket:    []byte("tls12-ticket"),
		PeerCertificates: [][]byte{cert},
	}}
	loader := NewSessionLoader(cache, fixedClock(1000))
	hello := &ClientHelloMsg{
		SupportedVersions: []uint16{tls12},
		OfferedSuites:     []uint16{0xC02F, 0xC030},
	}
	cfg := &Config{ServerName: "example.com"}

	if err := loader.LoadSession(hello, cfg, &ConnState{}, ""); err != nil {
		t.Fatal(err)
	}
	if string(hello.SessionTicket) != "tls12-ticket" {
		t.Fatalf("SessionTicket = %q, want %q", hello.SessionTicket, "tls12-ticket")
	}
}

func TestLoadSessionTLS12SkipsWhenSuiteNotOffered(t *testing.T) {
	cert := selfSignedCert(t, "example.com", time.Unix(10000, 0))
	cache := memCache{"example.com": {
		Version:          tls12,
		CipherSuite:      0xC02F,
		SessionTicket:    []byte("tls12-ticket"),
		PeerCertificates: [][]byte{cert},
	}}
	loader := NewSessionLoader(cache, fixedClock(1000))
	hello := &ClientHelloMsg{
		SupportedVersions: []uint16{tls12},
		OfferedSuites:     []uint16{0x1301},
	}
	cfg := &Config{ServerName: "example.com"}

	if err := loader.LoadSession(hello, cfg, &ConnState{}, ""); err != nil {
		t.Fatal(err)
	}
	if hello.SessionTicket != nil {
		t.Fatal("ticket must not be copied when the cipher suite isn't offered")
	}
}

// E6: an expired certificate triggers eviction and no PSK identity.
func TestLoadSessionEvictsExpiredCert(t *testing.T) {
	now := int64(1_700_000_000)
	cert := selfSignedCert(t, "example.com", time.Unix(now-1, 0))
	cache := memCache{"example.com": {
		Version:          tls13,
		SessionTicket:    []byte("ticket"),
		PeerCertificates: [][]byte{cert},
		UseBy:            now + 100000,
		ReceivedAt:       now - 500,
	}}
	loader := NewSessionLoader(cache, fixedClock(now))
	hello := &ClientHelloMsg{SupportedVersions: []uint16{tls13}}
	cfg := &Config{ServerName: "example.com"}

	if err := loader.LoadSession(hello, cfg, &ConnState{}, ""); err != nil {
		t.Fatal(err)
	}
	if len(hello.PSKIdentities) != 0 {
		t.Fatal("expired certificate must not yield a PSK identity")
	}
	if _, ok := cache.Get("example.com"); ok {
		t.Fatal("expired-certificate entry must be evicted")
	}
}

func TestLoadSessionEvictsOnNameMismatch(t *testing.T) {
	cert := selfSignedCert(t, "other.example.com", time.Unix(10000, 0))
	cache := memCache{"example.com": {
		Version:          tls13,
		SessionTicket:    []byte("ticket"),
		PeerCertificates: [][]byte{cert},
		UseBy:            10000,
		ReceivedAt:       500,
	}}
	loader := NewSessionLoader(cache, fixedClock(1000))
	hello := &ClientHelloMsg{SupportedVersions: []uint16{tls13}}
	cfg := &Config{ServerName: "example.com"}

	if err := loader.LoadSession(hello, cfg, &ConnState{}, ""); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get("example.com"); ok {
		t.Fatal("a common-name mismatch must evict the entry")
	}
}

func TestLoadSessionEvictsOnExpiredTicket(t *testing.T) {
	cert := selfSignedCert(t, "example.com", time.Unix(999999, 0))
	cache := memCache{"example.com": {
		Version:          tls13,
		SessionTicket:    []byte("ticket"),
		PeerCertificates: [][]byte{cert},
		UseBy:            999,
		ReceivedAt:       500,
	}}
	loader := NewSessionLoader(cache, fixedClock(1000))
	hello := &ClientHelloMsg{SupportedVersions: []uint16{tls13}}
	cfg := &Config{ServerName: "example.com"}

	if err := loader.LoadSession(hello, cfg, &ConnState{}, ""); err != nil {
		t.Fatal(err)
	}
	if len(hello.PSKIdentities) != 0 {
		t.Fatal("expired ticket must not yield a PSK identity")
	}
	if _, ok := cache.Get("example.com"); ok {
		t.Fatal("expired ticket entry must be evicted")
	}
}
