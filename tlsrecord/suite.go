package tlsrecord

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"
)

// SuiteCategory classifies how a half-connection protects a record
// (spec.md §3, §4.6).
type SuiteCategory int

const (
	// SuiteUnknown means no keys have been installed yet: records pass
	// through unprotected.
	SuiteUnknown SuiteCategory = iota
	// SuiteStream is the legacy stream-cipher-plus-MAC record layer.
	SuiteStream
	// SuiteAEAD is the TLS 1.3 AEAD record layer.
	SuiteAEAD
)

// AEADFactory builds a keyed AEAD from raw key bytes.
type AEADFactory func(key []byte) (cipher.AEAD, error)

// BlockFactory builds a keyed block cipher from raw key bytes.
type BlockFactory func(key []byte) (cipher.Block, error)

// Suite is an algorithm descriptor: the key sizes HalfConn.SetKey
// should carve out of a traffic secret, and the constructors used to
// turn that key material into a live cipher. It carries no key
// material itself, so the same *Suite value can be shared across
// half-connections.
type Suite struct {
	Category SuiteCategory

	// TLS13 selects the TLS 1.3 AEAD record framing of spec.md §4.6.
	// Only meaningful when Category == SuiteAEAD; any other AEAD usage
	// is ErrUnsupportedSuite.
	TLS13 bool

	NewAEAD  AEADFactory
	NewBlock BlockFactory

	KeySize    int // symmetric key bytes drawn from the traffic secret
	MACKeySize int // HMAC-SHA256 key bytes; 0 means "no MAC configured"
}

// AES128GCMSuite is the default TLS 1.3 AEAD suite, grounded on
// qtls/quic-go's use of AES-128-GCM as the mandatory-to-implement
// cipher (other_examples quic-go vendoring).
var AES128GCMSuite = &Suite{
	Category: SuiteAEAD,
	TLS13:    true,
	KeySize:  16,
	NewAEAD: func(key []byte) (cipher.AEAD, error) {
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	},
}

// ChaCha20Poly1305Suite is the alternate TLS 1.3 AEAD suite, the
// second cipher qtls/quic-go negotiate alongside AES-GCM.
var ChaCha20Poly1305Suite = &Suite{
	Category: SuiteAEAD,
	TLS13:    true,
	KeySize:  chacha20poly1305.KeySize,
	NewAEAD: func(key []byte) (cipher.AEAD, error) {
		return chacha20poly1305.New(key)
	},
}

// LegacyStreamSuite is the pre-TLS-1.3 stream-cipher-with-MAC record
// layer spec.md §4.6's STREAM branch describes. AES in OFB mode
// provides the stream cipher; crypto/rc4 is not used.
var LegacyStreamSuite = &Suite{
	Category:   SuiteStream,
	KeySize:    16,
	MACKeySize: 32,
	NewBlock:   aes.NewCipher,
}

// LegacyStreamSuiteNoMAC is LegacyStreamSuite with no MAC configured,
// exercising spec.md §4.6's "if a MAC is configured" conditional.
var LegacyStreamSuiteNoMAC = &Suite{
	Category: SuiteStream,
	KeySize:  16,
	NewBlock: aes.NewCipher,
}
