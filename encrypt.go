package facet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// Encryptor protects field values written by the Encrypt transformer.
// Decrypt must accept whatever Encrypt produced.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// sealer is AES-GCM with the random nonce carried in front of the sealed bytes.
type sealer struct {
	aead cipher.AEAD
}

func newSealer(key []byte) (*sealer, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d bytes, want 16, 24 or 32", ErrInvalidKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &sealer{aead: aead}, nil
}

func (s *sealer) Encrypt(plaintext []byte) ([]byte, error) {
	size := s.aead.NonceSize()
	nonce := make([]byte, size, size+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *sealer) Decrypt(ciphertext []byte) ([]byte, error) {
	size := s.aead.NonceSize()
	if len(ciphertext) < size+s.aead.Overhead() {
		return nil, ErrCiphertextShort
	}
	plaintext, err := s.aead.Open(nil, ciphertext[:size], ciphertext[size:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// AES returns an AES-GCM encryptor. The key length picks AES-128, AES-192
// or AES-256.
func AES(key []byte) (Encryptor, error) {
	s, err := newSealer(key)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// envelope seals every value under a fresh data key and seals that key under
// the master key. Layout: [1 byte wrapped key len][wrapped key][sealed value].
type envelope struct {
	master *sealer
}

// Envelope returns an encryptor that uses a per-value data key wrapped by
// masterKey. The master key must be 16, 24 or 32 bytes.
func Envelope(masterKey []byte) (Encryptor, error) {
	master, err := newSealer(masterKey)
	if err != nil {
		return nil, err
	}
	return &envelope{master: master}, nil
}

func (e *envelope) Encrypt(plaintext []byte) ([]byte, error) {
	dataKey := make([]byte, 32)
	if _, err := rand.Read(dataKey); err != nil {
		return nil, err
	}
	data, err := newSealer(dataKey)
	if err != nil {
		return nil, err
	}

	wrapped, err := e.master.Encrypt(dataKey)
	if err != nil {
		return nil, err
	}
	body, err := data.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+len(wrapped)+len(body))
	out = append(out, byte(len(wrapped)))
	out = append(out, wrapped...)
	return append(out, body...), nil
}

func (e *envelope) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, ErrCiphertextShort
	}
	n := int(ciphertext[0])
	rest := ciphertext[1:]
	if len(rest) < n {
		return nil, ErrCiphertextShort
	}

	dataKey, err := e.master.Decrypt(rest[:n])
	if err != nil {
		return nil, err
	}
	data, err := newSealer(dataKey)
	if err != nil {
		return nil, err
	}
	return data.Decrypt(rest[n:])
}
