package tlsrecord

import (
	"crypto/x509"
)

const tls13 = 0x0304
const tls12 = 0x0303

var (
	errNoCachedCert     = errorString("tlsrecord: cached entry has no certificate")
	errCertExpired      = errorString("tlsrecord: cached certificate has expired")
	errCertNameMismatch = errorString("tlsrecord: cached certificate name mismatch")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// PSKIdentity is a single TLS 1.3 pre-shared-key identity offered in a
// ClientHello (spec.md §4.7 step 7). Early secret / binder derivation
// is delegated entirely to the handshake state machine; this package
// only assembles the identity.
type PSKIdentity struct {
	Label               []byte
	ObfuscatedTicketAge uint32
}

// ClientHelloMsg is the subset of an in-progress ClientHello the
// session loader reads and mutates (spec.md §4.7).
type ClientHelloMsg struct {
	TicketSupported   bool
	PSKModes          []byte
	SupportedVersions []uint16
	OfferedSuites     []uint16

	// SessionTicket is populated for a TLS <= 1.2 resumption offer.
	SessionTicket []byte
	// PSKIdentities is appended to for a TLS 1.3 resumption offer.
	PSKIdentities []PSKIdentity
}

// SessionState is one client session cache entry (spec.md §3).
type SessionState struct {
	Version          uint16
	CipherSuite      uint16
	SessionTicket    []byte
	PeerCertificates [][]byte // DER, leaf first
	UseBy            int64    // absolute expiry, unix seconds
	ReceivedAt       int64    // unix seconds the ticket was received
	AgeAdd           uint32   // ticket-age obfuscation salt
}

// SessionCache is the upward collaborator of spec.md §6
// (cli_sess_cache.{get,put}). Put with a nil state evicts the key.
type SessionCache interface {
	Get(key string) (*SessionState, bool)
	Put(key string, state *SessionState)
}

// Config carries the handshake configuration fields the loader reads
// (spec.md §4.7): the server name used both as the cache key and as
// the expected certificate common name, and whether certificate
// validation is skipped entirely.
type Config struct {
	ServerName         string
	InsecureSkipVerify bool
}

// ConnState exposes the one field the loader needs from the
// connection: how many handshakes it has attempted so far, used to
// detect a HelloRetryRequest-driven retry.
type ConnState struct {
	Handshakes int
}

// Clock returns the current time as seconds since the Unix epoch. It
// is the injected analogue of spec.md §6's monotonic now() collaborator.
type Clock func() int64

// SessionLoader implements the client session resumption lookup of
// spec.md §4.7, grounded on original_source/tls (the handshake_client
// session-loading path referenced by that section).
type SessionLoader struct {
	cache SessionCache
	clock Clock
}

// NewSessionLoader builds a SessionLoader. clock must not be nil.
func NewSessionLoader(cache SessionCache, clock Clock) *SessionLoader {
	return &SessionLoader{cache: cache, clock: clock}
}

// LoadSession runs spec.md §4.7's seven steps against hello, mutating
// it in place with ticket/PSK-identity data recovered from the cache.
// peerAddr is used as the cache key when cfg.ServerName is empty.
func (l *SessionLoader) LoadSession(hello *ClientHelloMsg, cfg *Config, conn *ConnState, peerAddr string) error {
	// 1. Ticket support is always advertised; PSK modes only alongside
	// a 1.3 offer.
	hello.TicketSupported = true
	if highestVersion(hello.SupportedVersions) == tls13 {
		hello.PSKModes = []byte{0x01} // psk_dhe_ke
	}

	// 2. Never bind a ticket across a HelloRetryRequest.
	if conn.Handshakes != 0 {
		return nil
	}

	key := cfg.ServerName
	if key == "" {
		key = peerAddr
	}

	// 3. Cache miss: nothing to offer.
	entry, ok := l.cache.Get(key)
	if !ok || entry == nil {
		return nil
	}

	// 4. The cached version must still be one we're offering.
	if !containsUint16(hello.SupportedVersions, entry.Version) {
		return nil
	}

	// 5. Certificate validation, unless explicitly skipped.
	if !cfg.InsecureSkipVerify {
		if err := validateCachedCert(entry, cfg.ServerName, l.clock()); err != nil {
			l.cache.Put(key, nil)
			return nil
		}
	}

	// 6. TLS <= 1.2: ticket resumption needs the cipher suite to still
	// be offered.
	if entry.Version <= tls12 {
		if containsUint16(hello.OfferedSuites, entry.CipherSuite) {
			hello.SessionTicket = entry.SessionTicket
		}
		return nil
	}

	// 7. TLS 1.3: PSK identity with ticket-age obfuscation, unless the
	// ticket has expired.
	now := l.clock()
	if now > entry.UseBy {
		l.cache.Put(key, nil)
		return nil
	}
	hello.PSKIdentities = append(hello.PSKIdentities, PSKIdentity{
		Label:               entry.SessionTicket,
		ObfuscatedTicketAge: uint32(now-entry.ReceivedAt) + entry.AgeAdd,
	})
	return nil
}

// validateCachedCert checks the leading server certificate's
// commonName and expiry (spec.md §4.7 step 5). Per spec.md §9, the
// cached DER bytes must be treated as read-only; crypto/x509.ParseCertificate
// copies its input rather than mutating it in place, which already
// satisfies that constraint without an extra defensive copy.
func validateCachedCert(entry *SessionState, serverName string, now int64) error {
	if len(entry.PeerCertificates) == 0 {
		return errNoCachedCert
	}
	cert, err := x509.ParseCertificate(entry.PeerCertificates[0])
	if err != nil {
		return err
	}
	if cert.NotAfter.Unix() <= now {
		return errCertExpired
	}
	if cert.Subject.CommonName != serverName {
		return errCertNameMismatch
	}
	return nil
}

func highestVersion(versions []uint16) uint16 {
	var max uint16
	for _, v := range versions {
		if v > max {
			max = v
		}
	}
	return max
}

func containsUint16(haystack []uint16, needle uint16) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
