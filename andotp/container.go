package andotp

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/cryptobyte"
)

// Container is an encrypted backup split into its three regions
type Container struct {
	IV         [IVSize]byte
	Ciphertext []byte
	Tag        [TagSize]byte
}

// ReadContainer reads the backup at path. The tag is read before the
// ciphertext so a truncated file fails before the ciphertext buffer is
// allocated.
func ReadContainer(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	size := info.Size()
	if size < MinBackupSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, need at least %d", ErrIO, path, size, MinBackupSize)
	}

	c := &Container{}
	if _, err := io.ReadFull(f, c.IV[:]); err != nil {
		return nil, fmt.Errorf("%w: failed to read IV: %w", ErrIO, err)
	}

	if _, err := f.Seek(size-TagSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: failed to seek to tag: %w", ErrIO, err)
	}
	if _, err := io.ReadFull(f, c.Tag[:]); err != nil {
		return nil, fmt.Errorf("%w: failed to read tag: %w", ErrIO, err)
	}

	if _, err := f.Seek(IVSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: failed to seek to ciphertext: %w", ErrIO, err)
	}
	c.Ciphertext = make([]byte, size-MinBackupSize)
	if _, err := io.ReadFull(f, c.Ciphertext); err != nil {
		return nil, fmt.Errorf("%w: failed to read ciphertext: %w", ErrIO, err)
	}

	return c, nil
}

// ParseContainer splits an in-memory backup. data is copied, so the caller
// keeps ownership of it.
func ParseContainer(data []byte) (*Container, error) {
	if len(data) < MinBackupSize {
		return nil, fmt.Errorf("%w: backup is %d bytes, need at least %d", ErrIO, len(data), MinBackupSize)
	}

	c := &Container{}
	var ciphertext []byte
	s := cryptobyte.String(data)
	if !s.CopyBytes(c.IV[:]) ||
		!s.ReadBytes(&ciphertext, len(data)-MinBackupSize) ||
		!s.CopyBytes(c.Tag[:]) ||
		!s.Empty() {
		return nil, fmt.Errorf("%w: truncated backup", ErrIO)
	}
	c.Ciphertext = append([]byte(nil), ciphertext...)

	return c, nil
}

// sealed reassembles the IV || ciphertext || tag layout Tink expects
func (c *Container) sealed() []byte {
	out := make([]byte, 0, MinBackupSize+len(c.Ciphertext))
	out = append(out, c.IV[:]...)
	out = append(out, c.Ciphertext...)
	out = append(out, c.Tag[:]...)
	return out
}
