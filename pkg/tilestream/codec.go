package tilestream

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrBadData reports a malformed stream header, offset table or tile.
	ErrBadData = errors.New("tilestream: bad data")
	// ErrInsufficientSpace reports a tile that decodes to more than its capacity.
	ErrInsufficientSpace = errors.New("tilestream: insufficient space")
	// ErrDecoderCreation reports a codec that could not create a decoder.
	ErrDecoderCreation = errors.New("tilestream: decompressor creation failed")
	// ErrEncoderCreation reports a codec that could not create an encoder.
	ErrEncoderCreation = errors.New("tilestream: compressor creation failed")
	// ErrUnknownCodec reports a codec name that is not registered.
	ErrUnknownCodec = errors.New("tilestream: unknown codec")
)

// UnknownStatusError reports a decoder failure that maps to none of the
// known outcomes.
type UnknownStatusError struct {
	Codec string
	Err   error
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("tilestream: %s decoder returned an unrecognized status: %v", e.Codec, e.Err)
}

func (e *UnknownStatusError) Unwrap() error {
	return e.Err
}

// Decoder decodes single tiles. A Decoder is not safe for concurrent use.
type Decoder interface {
	// DecodeTile decodes src and returns at most capacity bytes. The result
	// is only valid until the next call. Failures wrap ErrBadData or
	// ErrInsufficientSpace, or are an *UnknownStatusError.
	DecodeTile(src []byte, capacity int) ([]byte, error)
	Close() error
}

// Encoder encodes single tiles. An Encoder is not safe for concurrent use.
type Encoder interface {
	// EncodeTile returns the coded form of src, valid until the next call.
	EncodeTile(src []byte) ([]byte, error)
	Close() error
}

// Codec is the per-tile entropy coder a stream is layered on.
type Codec interface {
	Name() string
	NewDecoder() (Decoder, error)
	NewEncoder() (Encoder, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Codec)
)

// Register makes a codec available through Lookup. Registering a name twice
// replaces the earlier codec.
func Register(c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Name()] = c
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// Codecs returns the registered codec names in sorted order.
func Codecs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
