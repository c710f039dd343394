// Package itnsign implements a dev tool that computes the PayFast parameter
// signature for a set of key=value fields, for reproducing webhook payloads
// by hand.
package itnsign

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/warmnest/warmnest/internal/payfast"
	entrypoint "github.com/warmnest/warmnest/internal/platform/cmd"
)

// Config holds itn-sign command configuration.
type Config struct {
	Passphrase string `env:"WARMNEST_PAYFAST_PASSPHRASE"`
	Fields     map[string]string
}

// ParseConfig parses environment, flags, and key=value arguments.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Passphrase, "passphrase", cfg.Passphrase, "The merchant passphrase appended before hashing")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	cfg.Fields = make(map[string]string, fs.NArg())
	for _, arg := range fs.Args() {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return Config{}, fmt.Errorf("argument %q is not key=value", arg)
		}
		cfg.Fields[key] = value
	}
	if len(cfg.Fields) == 0 {
		return Config{}, fmt.Errorf("at least one key=value field is required")
	}
	return cfg, nil
}

// Run writes the computed signature to out.
func Run(cfg Config, out io.Writer) error {
	signature := payfast.Sign(cfg.Fields, cfg.Passphrase)
	_, err := fmt.Fprintln(out, signature)
	return err
}
