// Package secret holds helpers for key material and decrypted data that
// must not outlive its use.
package secret

import "runtime"

// Zero overwrites b with zeros. The write is kept alive so the compiler
// cannot drop it as a dead store.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
