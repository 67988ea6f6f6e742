// Package tlsrecord implements the TLS record-protection half of a
// QUIC endpoint (spec.md §4.6) and the client session resumption
// lookup feeding a ClientHello (spec.md §4.7).
//
// Grounded line-for-line on original_source/tls/conn.c's
// gquic_tls_half_conn_encrypt/_decrypt, with the C evidence's
// {self, set_key} callback pair replaced by a plain Go closure field
// and the mutable DER-parser concern resolved by crypto/x509, which
// copies its input rather than mutating it in place.
package tlsrecord

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/hkdf"
)

// HalfConn is one direction (send or receive) of a TLS 1.3-style
// record layer: a suite, a traffic secret, and a monotonically
// increasing 64-bit sequence number (spec.md §3).
//
// HalfConn is not internally synchronized (spec.md §5); the owning
// connection goroutine must serialize Encrypt/Decrypt with SetKey.
type HalfConn struct {
	suite    *Suite
	secret   []byte
	seq      [8]byte
	poisoned bool

	aead    cipher.AEAD
	fixedIV [4]byte
	block   cipher.Block
	macKey  []byte

	// onKeyInstalled is invoked after every successful SetKey, the Go
	// analogue of the C evidence's key-install callback pair
	// (spec.md §3, §6's alt_record.set_rkey/set_wkey).
	onKeyInstalled func(suite *Suite, secret []byte)
}

// NewHalfConn builds a HalfConn in the UNKEYED state. onKeyInstalled
// may be nil.
func NewHalfConn(onKeyInstalled func(suite *Suite, secret []byte)) *HalfConn {
	return &HalfConn{onKeyInstalled: onKeyInstalled}
}

// Seq returns a copy of the current 8-byte big-endian sequence number.
func (hc *HalfConn) Seq() [8]byte { return hc.seq }

// Suite reports the currently installed suite, or nil if UNKEYED.
func (hc *HalfConn) Suite() *Suite { return hc.suite }

// SetKey installs suite and secret, resetting seq to all-zero
// (spec.md §4.6's state machine, Testable Property 10). Idempotent
// for identical arguments: calling it again with the same suite and
// secret derives the same keys and resets seq the same way.
func (hc *HalfConn) SetKey(suite *Suite, secret []byte) error {
	hc.suite = suite
	hc.secret = append([]byte(nil), secret...)
	hc.seq = [8]byte{}
	hc.poisoned = false
	hc.aead = nil
	hc.block = nil
	hc.macKey = nil

	switch suite.Category {
	case SuiteAEAD:
		key, err := hkdfExpand(secret, "gquic key", suite.KeySize)
		if err != nil {
			return err
		}
		iv, err := hkdfExpand(secret, "gquic iv", len(hc.fixedIV))
		if err != nil {
			return err
		}
		aeadImpl, err := suite.NewAEAD(key)
		if err != nil {
			return err
		}
		hc.aead = aeadImpl
		copy(hc.fixedIV[:], iv)
	case SuiteStream:
		key, err := hkdfExpand(secret, "gquic key", suite.KeySize)
		if err != nil {
			return err
		}
		block, err := suite.NewBlock(key)
		if err != nil {
			return err
		}
		hc.block = block
		if suite.MACKeySize > 0 {
			macKey, err := hkdfExpand(secret, "gquic mac", suite.MACKeySize)
			if err != nil {
				return err
			}
			hc.macKey = macKey
		}
	case SuiteUnknown:
		// No key material to derive.
	}

	if hc.onKeyInstalled != nil {
		hc.onKeyInstalled(suite, hc.secret)
	}
	return nil
}

func hkdfExpand(secret []byte, label string, size int) ([]byte, error) {
	r := hkdf.Expand(sha256.New, secret, []byte(label))
	out := make([]byte, size)
	if _, err := r.Read(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Encrypt protects payload under recordHeader, the 5-byte TLS record
// header (type ‖ legacy_ver ‖ length) the caller is about to send
// (spec.md §4.6). The length field of recordHeader is ignored: the
// output's length field is overwritten with the true record length,
// and the STREAM suite's MAC is computed over the header carrying that
// overwritten length.
func (hc *HalfConn) Encrypt(recordHeader, payload []byte) ([]byte, error) {
	if hc.poisoned {
		return nil, ErrSeqOverflow
	}
	if hc.suite == nil || hc.suite.Category == SuiteUnknown {
		ret := make([]byte, 0, len(recordHeader)+len(payload))
		ret = append(ret, recordHeader...)
		ret = append(ret, payload...)
		return ret, nil
	}

	var ret []byte
	switch hc.suite.Category {
	case SuiteStream:
		ret = hc.encryptStream(recordHeader, payload)
	case SuiteAEAD:
		if !hc.suite.TLS13 {
			return nil, ErrUnsupportedSuite
		}
		var err error
		ret, err = hc.encryptAEAD13(recordHeader, payload)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnsupportedSuite
	}

	binary.BigEndian.PutUint16(ret[3:5], uint16(len(ret)-5))
	if err := hc.incSeq(); err != nil {
		return nil, err
	}
	return ret, nil
}

// encryptStream encrypts seq‖payload under the record's OFB keystream,
// then, if a MAC key is configured, appends an HMAC over
// seq‖header‖ciphertext in the clear (encrypt-then-MAC), so
// decryptStream can verify it without first decrypting anything. The
// header MACed is recordHeader with its length field already set to
// the record's final length.
func (hc *HalfConn) encryptStream(recordHeader, payload []byte) []byte {
	msg := make([]byte, 8+len(payload))
	copy(msg, hc.seq[:])
	copy(msg[8:], payload)

	stream := hc.recordStream()
	ciphertext := make([]byte, len(msg))
	stream.XORKeyStream(ciphertext, msg)

	macSize := 0
	if hc.macKey != nil {
		macSize = sha256.Size
	}
	ret := make([]byte, 0, len(recordHeader)+len(ciphertext)+macSize)
	ret = append(ret, recordHeader...)
	ret = append(ret, ciphertext...)
	if hc.macKey != nil {
		// Set the length field to its final value first, so the MAC
		// covers the header exactly as decryptStream will see it.
		binary.BigEndian.PutUint16(ret[3:5], uint16(len(ret)-5+macSize))
		mac := hmac.New(sha256.New, hc.macKey)
		mac.Write(hc.seq[:])
		mac.Write(ret[:len(recordHeader)])
		mac.Write(ciphertext)
		ret = append(ret, mac.Sum(nil)...)
	}
	return ret
}

// recordStream derives the OFB keystream for the current record from
// the block cipher and the current sequence number, so independent
// Encrypt/Decrypt calls sharing the same seq produce the same
// keystream without carrying open *cipher.Stream state across calls.
func (hc *HalfConn) recordStream() cipher.Stream {
	iv := make([]byte, aes.BlockSize)
	copy(iv, hc.seq[:])
	return cipher.NewOFB(hc.block, iv)
}

func (hc *HalfConn) encryptAEAD13(recordHeader, payload []byte) ([]byte, error) {
	nonceExplicit := make([]byte, 8)
	if _, err := rand.Read(nonceExplicit); err != nil {
		return nil, err
	}

	len16 := 1 + 8 + hc.aead.Overhead() + len(payload)
	internalHeader := make([]byte, 5)
	internalHeader[0] = 0x17 // application_data
	internalHeader[1] = recordHeader[1]
	internalHeader[2] = recordHeader[2]
	binary.BigEndian.PutUint16(internalHeader[3:5], uint16(len16))

	nonce := make([]byte, 0, len(hc.fixedIV)+len(nonceExplicit))
	nonce = append(nonce, hc.fixedIV[:]...)
	nonce = append(nonce, nonceExplicit...)

	sealed := hc.aead.Seal(nil, nonce, payload, internalHeader)
	tagSize := hc.aead.Overhead()
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	ret := make([]byte, 0, 5+1+8+len(tag)+len(ciphertext))
	ret = append(ret, internalHeader...)
	ret = append(ret, 0x08)
	ret = append(ret, nonceExplicit...)
	ret = append(ret, tag...)
	ret = append(ret, ciphertext...)
	return ret, nil
}

// Decrypt is the inverse of Encrypt (spec.md §4.6). wire is the
// complete on-wire record, header included. It returns the record's
// type byte (wire[0], which both suites leave visible on the wire)
// and the recovered plaintext payload.
func (hc *HalfConn) Decrypt(wire []byte) (byte, []byte, error) {
	if hc.poisoned {
		return 0, nil, ErrSeqOverflow
	}
	if len(wire) < 5 {
		return 0, nil, ErrBadRecordMAC
	}
	recordType := wire[0]
	header := wire[:5]
	body := wire[5:]

	if hc.suite == nil || hc.suite.Category == SuiteUnknown {
		if err := hc.incSeq(); err != nil {
			return 0, nil, err
		}
		return recordType, body, nil
	}

	var payload []byte
	switch hc.suite.Category {
	case SuiteStream:
		var err error
		payload, err = hc.decryptStream(header, body)
		if err != nil {
			return 0, nil, err
		}
	case SuiteAEAD:
		if !hc.suite.TLS13 {
			return 0, nil, ErrUnsupportedSuite
		}
		var err error
		payload, err = hc.decryptAEAD13(header, body)
		if err != nil {
			return 0, nil, err
		}
	default:
		return 0, nil, ErrUnsupportedSuite
	}

	if err := hc.incSeq(); err != nil {
		return 0, nil, err
	}
	return recordType, payload, nil
}

// decryptStream is the inverse of encryptStream: the MAC, when
// present, is verified over the still-encrypted wire bytes before any
// decryption happens, mirroring gquic_tls_half_conn_decrypt's hash
// over its "still-encrypted payload" variable rather than the
// separately-produced plaintext.
func (hc *HalfConn) decryptStream(recordHeader, body []byte) ([]byte, error) {
	macSize := 0
	if hc.macKey != nil {
		macSize = sha256.Size
	}
	if len(body) < 8+macSize {
		return nil, ErrBadRecordMAC
	}
	ciphertext := body[:len(body)-macSize]

	if hc.macKey != nil {
		gotMAC := body[len(body)-macSize:]
		mac := hmac.New(sha256.New, hc.macKey)
		mac.Write(hc.seq[:])
		mac.Write(recordHeader)
		mac.Write(ciphertext)
		if !hmac.Equal(gotMAC, mac.Sum(nil)) {
			return nil, ErrBadRecordMAC
		}
	}

	stream := hc.recordStream()
	msg := make([]byte, len(ciphertext))
	stream.XORKeyStream(msg, ciphertext)
	return msg[8:], nil
}

func (hc *HalfConn) decryptAEAD13(recordHeader, body []byte) ([]byte, error) {
	if len(body) < 1 {
		return nil, ErrBadRecordMAC
	}
	nonceLen := int(body[0])
	tagSize := hc.aead.Overhead()
	if len(body) < 1+nonceLen+tagSize {
		return nil, ErrBadRecordMAC
	}
	nonceExplicit := body[1 : 1+nonceLen]
	tag := body[1+nonceLen : 1+nonceLen+tagSize]
	ciphertext := body[1+nonceLen+tagSize:]

	nonce := make([]byte, 0, len(hc.fixedIV)+nonceLen)
	nonce = append(nonce, hc.fixedIV[:]...)
	nonce = append(nonce, nonceExplicit...)

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	payload, err := hc.aead.Open(nil, nonce, sealed, recordHeader)
	if err != nil {
		return nil, ErrBadRecordMAC
	}
	return payload, nil
}

// incSeq increments the 8-byte big-endian sequence number, reporting
// ErrSeqOverflow instead of wrapping from all-ones to all-zero
// (spec.md §9 — fixes the C evidence's non-terminating i >= 0 loop on
// an unsigned index with a correct descending-carry increment).
func (hc *HalfConn) incSeq() error {
	for i := 7; i >= 0; i-- {
		hc.seq[i]++
		if hc.seq[i] != 0 {
			return nil
		}
	}
	hc.poisoned = true
	return ErrSeqOverflow
}
