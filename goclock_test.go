package goclock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	var got DialOptions
	Register("test-registry", func(opts DialOptions) Dialer {
		got = opts
		return func(Peer) (Stream, error) { return &fakeStream{}, nil }
	})

	dial, err := NewDialer("test-registry", DialOptions{ReadTimeout: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.ReadTimeout)

	stream, err := dial(DefaultPeer())
	require.NoError(t, err)
	assert.NotNil(t, stream)

	assert.Contains(t, Transports(), "test-registry")
}

func TestRegistryUnknown(t *testing.T) {
	_, err := NewDialer("carrier-pigeon", DialOptions{})
	assert.ErrorIs(t, err, ErrUnknownTransport)
}
