package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"otpimport/andotp"
	"otpimport/otp"
	"otpimport/secret"
)

const (
	Version = "1.0.0"

	// Environment variable for passphrase
	PassphraseEnvVar = "OTPIMPORT_PASSPHRASE"
)

// ImportOptions holds the flags of the import command
type ImportOptions struct {
	Format         string
	Output         string
	Raw            bool
	PassphraseFile string
}

func main() {
	err := run(os.Args[1:], os.Stdout)
	klog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", describe(err))
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		printUsage()
		return fmt.Errorf("no command specified")
	}

	command := args[0]
	switch command {
	case "import", "-i":
		return runImport(args[1:], stdout)
	case "add", "-a":
		return runAdd(args[1:], stdout)
	case "--help", "-h":
		printUsage()
		return nil
	case "--version":
		fmt.Fprintf(os.Stderr, "otpimport version %s\n", Version)
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runImport(args []string, stdout io.Writer) error {
	var opts ImportOptions
	flagSet := newFlagSet("import")
	flagSet.StringVarP(&opts.Format, "format", "f", "json", "output format: json, yaml or cbor")
	flagSet.StringVarP(&opts.Output, "output", "o", "", "write to this file instead of STDOUT")
	flagSet.BoolVar(&opts.Raw, "raw", false, "write the decrypted JSON without parsing it")
	flagSet.StringVar(&opts.PassphraseFile, "passphrase-file", "", "read the passphrase from this file")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("import expects exactly one backup file, got %d", flagSet.NArg())
	}
	path := flagSet.Arg(0)

	if !opts.Raw {
		if err := checkFormat(opts.Format); err != nil {
			return err
		}
	}

	passphrase, err := getPassphrase("Enter backup passphrase: ", opts.PassphraseFile)
	if err != nil {
		return fmt.Errorf("failed to get passphrase: %w", err)
	}
	defer secret.Zero(passphrase)

	if len(passphrase) == 0 {
		return fmt.Errorf("passphrase cannot be empty")
	}

	klog.V(1).Infof("Importing %s", path)

	if opts.Raw {
		container, err := andotp.ReadContainer(path)
		if err != nil {
			return err
		}
		plaintext, err := container.Open(passphrase)
		if err != nil {
			return err
		}
		defer secret.Zero(plaintext)

		return writeOutput(opts.Output, stdout, func(w io.Writer) error {
			_, err := w.Write(plaintext)
			return err
		})
	}

	records, err := andotp.Decrypt(path, passphrase)
	if err != nil {
		return err
	}
	klog.V(1).Infof("Imported %d accounts", len(records))

	return writeOutput(opts.Output, stdout, func(w io.Writer) error {
		return encodeRecords(w, opts.Format, records)
	})
}

func runAdd(args []string, stdout io.Writer) error {
	var (
		entry     otp.ManualEntry
		typeName  string
		algorithm string
		format    string
		digits    uint
		period    uint
	)
	flagSet := newFlagSet("add")
	flagSet.StringVar(&typeName, "type", "TOTP", "TOTP or HOTP")
	flagSet.StringVar(&algorithm, "algorithm", "SHA1", "SHA1, SHA256 or SHA512")
	flagSet.StringVar(&entry.Issuer, "issuer", "", "account issuer")
	flagSet.StringVar(&entry.Label, "label", "", "account label")
	flagSet.StringVar(&entry.Secret, "secret", "", "shared secret")
	flagSet.UintVar(&digits, "digits", 6, "number of code digits")
	flagSet.UintVar(&period, "period", otp.DefaultPeriod, "TOTP period in seconds")
	flagSet.Uint64Var(&entry.Counter, "counter", 0, "initial HOTP counter")
	flagSet.BoolVar(&entry.Steam, "steam", false, "use the Steam Guard preset")
	flagSet.StringVarP(&format, "format", "f", "json", "output format: json, yaml or cbor")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if err := checkFormat(format); err != nil {
		return err
	}
	if digits > 255 || period > 255 {
		return fmt.Errorf("digits and period must be at most 255")
	}

	var err error
	if entry.Type, err = otp.ParseType(typeName); err != nil {
		return err
	}
	entry.Algorithm = otp.ParseAlgorithm(algorithm)
	entry.Digits = uint8(digits)
	entry.Period = uint8(period)

	rec, err := entry.Record()
	if err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}
	return encodeRecords(stdout, format, []otp.Record{rec})
}

// newFlagSet returns a command flag set that also carries klog's flags
func newFlagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	flagSet.AddGoFlagSet(klogFlags)
	return flagSet
}

// writeOutput runs write against path, or against stdout when path is empty.
// The file is left owner-only even when it already existed.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := f.Chmod(0600); err != nil {
		f.Close()
		return fmt.Errorf("failed to restrict output permissions: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

// describe maps import failures onto the three cases a user can act on
func describe(err error) string {
	switch {
	case errors.Is(err, andotp.ErrAuthentication):
		return andotp.ErrAuthentication.Error()
	case errors.Is(err, andotp.ErrIO):
		return err.Error()
	case errors.Is(err, andotp.ErrMalformed),
		errors.Is(err, andotp.ErrShape),
		errors.Is(err, andotp.ErrMissingField),
		errors.Is(err, andotp.ErrInvalidField),
		errors.Is(err, andotp.ErrUnknownType):
		return "unsupported or corrupt backup data: " + err.Error()
	}
	return err.Error()
}

func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case "json", "yaml", "cbor":
		return nil
	}
	return fmt.Errorf("unsupported format: %s", format)
}

func printUsage() {
	usage := `otpimport - Import accounts from andOTP encrypted backups

USAGE:
    otpimport <command> [options]

COMMANDS:
    import, -i <backup>  Decrypt an andOTP backup and print its accounts
    add, -a              Build an account from flags (manual entry)
    --help, -h           Show this help message
    --version            Show version information

IMPORT OPTIONS:
    --format=FMT, -f FMT    Output format: json (default), yaml or cbor
    --output=FILE, -o FILE  Write to FILE (mode 0600) instead of STDOUT
    --raw                   Write the decrypted JSON as-is
    --passphrase-file=FILE  Read the passphrase from FILE

ADD OPTIONS:
    --type, --algorithm, --issuer, --label, --secret,
    --digits, --period, --counter, --format
    --steam                 Steam Guard preset (TOTP, SHA1, 5 digits)

LOGGING:
    -v N                    klog verbosity (1: progress, 2: file details)

PASSPHRASE:
    Set OTPIMPORT_PASSPHRASE environment variable, use --passphrase-file,
    or enter interactively.

EXAMPLES:
    # Import to YAML
    otpimport import otp_accounts.json.aes -f yaml

    # Keep the decrypted JSON
    otpimport import otp_accounts.json.aes --raw -o accounts.json

    # Add a Steam account
    otpimport add --steam --label gamer --secret JBSWY3DPEHPK3PXP

SECURITY:
    - andOTP keys backups with a single unsalted SHA-256 of the passphrase
    - A wrong passphrase and a corrupted file are reported the same way
    - Output contains plaintext secrets

`
	fmt.Fprint(os.Stderr, usage)
}
