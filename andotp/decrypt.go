package andotp

import (
	"fmt"

	"k8s.io/klog/v2"

	"otpimport/otp"
	"otpimport/secret"
)

// Decrypt reads the backup at path, decrypts it with passphrase and parses
// the accounts it holds. The passphrase is not modified; the caller owns it.
func Decrypt(path string, passphrase []byte) ([]otp.Record, error) {
	c, err := ReadContainer(path)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("Read backup %s: %d bytes of ciphertext", path, len(c.Ciphertext))
	return c.Records(passphrase)
}

// DecryptBytes is Decrypt for a backup already held in memory
func DecryptBytes(data []byte, passphrase []byte) ([]otp.Record, error) {
	c, err := ParseContainer(data)
	if err != nil {
		return nil, err
	}
	return c.Records(passphrase)
}

// Records decrypts the container and parses the plaintext. The plaintext is
// zeroed before returning, whether or not parsing succeeds.
func (c *Container) Records(passphrase []byte) ([]otp.Record, error) {
	plaintext, err := c.Open(passphrase)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(plaintext)

	records, err := Parse(plaintext)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("Parsed %d records from backup", len(records))
	return records, nil
}

// Open decrypts and authenticates the container, returning the plaintext
// JSON. The caller must zero the returned slice when done with it.
func (c *Container) Open(passphrase []byte) ([]byte, error) {
	key := deriveKey(passphrase)
	defer secret.Zero(key)

	primitive, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := primitive.Decrypt(c.sealed(), nil)
	if err != nil {
		// Never parse, log or return plaintext whose tag failed.
		secret.Zero(plaintext)
		return nil, ErrAuthentication
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// String avoids dumping ciphertext into logs
func (c *Container) String() string {
	return fmt.Sprintf("andotp.Container{ciphertext: %d bytes}", len(c.Ciphertext))
}
