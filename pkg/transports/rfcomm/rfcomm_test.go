//go:build linux

package rfcomm

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestWriteOne(t *testing.T) {
	calls := 0
	results := []struct {
		n   int
		err error
	}{{0, unix.EINTR}, {1, nil}}
	err := writeOne(func(p []byte) (int, error) {
		r := results[calls]
		calls++
		return r.n, r.err
	}, []byte{'k'})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls, "interrupted write is retried")
}

func TestWriteOneZeroBytes(t *testing.T) {
	calls := 0
	err := writeOne(func(p []byte) (int, error) {
		calls++
		return 0, nil
	}, []byte{'k'})
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, 1, calls)
}

func TestWriteOneError(t *testing.T) {
	boom := errors.New("reset by peer")
	err := writeOne(func(p []byte) (int, error) { return 0, boom }, []byte{'k'})
	assert.ErrorIs(t, err, boom)
}
