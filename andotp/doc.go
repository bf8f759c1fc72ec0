// Package andotp imports andOTP encrypted backups.
//
// A backup is laid out as
//
//	[0, 12)      IV
//	[12, N-16)   AES-256-GCM ciphertext
//	[N-16, N)    GCM tag
//
// and is keyed with SHA-256 of the passphrase. The plaintext is a JSON
// array of account objects which [Parse] turns into [otp.Record] values.
// Decryption and parsing are all-or-nothing: any failure yields no records.
//
// Nothing here holds package-level mutable state, so independent imports
// may run concurrently.
package andotp
