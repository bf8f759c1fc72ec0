package main

import (
	"bytes"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"otpimport/secret"
)

// promptPassword reads a passphrase interactively. Replaced in tests.
var promptPassword = readPassword

// getPassphrase tries the environment, then path, then the terminal
func getPassphrase(prompt, path string) ([]byte, error) {
	if envPass := os.Getenv(PassphraseEnvVar); envPass != "" {
		return []byte(envPass), nil
	}

	if path != "" {
		return readPassphraseFile(path)
	}

	return promptPassword(prompt)
}

// readPassphraseFile returns the first line of path without its line ending
func readPassphraseFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(data)

	line := data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = bytes.TrimSuffix(line, []byte("\r"))

	return append([]byte(nil), line...), nil
}

// readPassword prompts on STDERR and reads without echo
func readPassword(prompt string) ([]byte, error) {
	fd, release, err := passwordTerminal()
	if err != nil {
		return nil, err
	}
	defer release()

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return passphrase, nil
}

// passwordTerminal picks STDIN when it is a terminal and /dev/tty when STDIN
// is piped, as it is when the backup arrives on a pipe.
func passwordTerminal() (int, func(), error) {
	if fd := int(syscall.Stdin); term.IsTerminal(fd) {
		return fd, func() {}, nil
	}

	tty, err := os.Open("/dev/tty")
	if err != nil {
		return 0, nil, fmt.Errorf("STDIN is not a terminal and /dev/tty is unavailable; set %s or use --passphrase-file", PassphraseEnvVar)
	}
	return int(tty.Fd()), func() { tty.Close() }, nil
}
