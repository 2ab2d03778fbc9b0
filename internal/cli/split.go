package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-sss/internal/codec"
	"github.com/smallyu/go-sss/internal/sealed"
	"github.com/smallyu/go-sss/internal/workflow"
	"github.com/smallyu/go-sss/pkg/sss"
)

// secretFlags are shared by split and roundtrip.
type secretFlags struct {
	secret    string
	text      bool
	random    bool
	curve     string
	shares    int
	threshold int
}

func (f *secretFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.secret, "secret", "", "secret as hex (or text with --text)")
	cmd.Flags().BoolVar(&f.text, "text", false, "interpret --secret as UTF-8 text")
	cmd.Flags().BoolVar(&f.random, "random", false, "generate a random curve-valid secret")
	cmd.Flags().StringVar(&f.curve, "curve", "", "curve (secp256k1, secp256r1, ed25519)")
	cmd.Flags().IntVarP(&f.shares, "shares", "n", 0, "total number of shares")
	cmd.Flags().IntVarP(&f.threshold, "threshold", "t", 0, "shares required to recover")
}

// input builds the workflow input, falling back to configuration for unset
// flags. generated is the hex of a secret drawn because of --random.
func (f *secretFlags) input(e *env) (in workflow.Input, generated string, err error) {
	curveName := f.curve
	if curveName == "" {
		curveName = e.cfg.Curve
	}
	curve, err := sss.ParseCurve(curveName)
	if err != nil {
		return in, "", err
	}

	params := e.cfg.Params()
	if f.shares != 0 {
		params.Total = f.shares
	}
	if f.threshold != 0 {
		params.Threshold = f.threshold
	}

	in = workflow.Input{Curve: curve, Params: params}
	switch {
	case f.random && f.secret != "":
		return in, "", errors.New("--random and --secret are mutually exclusive")
	case f.random:
		secret, err := e.generator.RandomSecret(curve)
		if err != nil {
			return in, "", err
		}
		in.SecretBytes = secret
		generated = codec.BytesToHex(secret)
	case f.secret != "":
		in.Secret = f.secret
		if f.text {
			in.Encoding = codec.EncodingText
		}
	default:
		return in, "", errors.New("one of --secret or --random is required")
	}
	return in, generated, nil
}

func newSplitCmd(cfg *Config) *cobra.Command {
	var (
		flags         secretFlags
		out           string
		passphraseEnv string
	)
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a secret into shares",
		Example: `  sssctl split --secret a9f1b4e8c2d7a1b3bce478f0d84f211ea1fe5d246b707df733fc7a5f21e2da43 -n 3 -t 2
  sssctl split --text --secret "hello" --curve ed25519 --out shares.json
  SSS_PASSPHRASE=... sssctl split --random --out shares.sealed --passphrase-env SSS_PASSPHRASE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cfg.newEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.flushMetrics(cmd.ErrOrStderr()) }()

			if passphraseEnv != "" && out == "" {
				return errors.New("--passphrase-env requires --out")
			}
			in, generated, err := flags.input(e)
			if err != nil {
				return err
			}

			session := e.session()
			session.Configure(in)
			if err := session.Split(); err != nil {
				return err
			}
			bundle, err := session.Export()
			if err != nil {
				return err
			}

			if out != "" {
				data, err := workflow.MarshalBundle(bundle)
				if err != nil {
					return err
				}
				if passphraseEnv != "" {
					data, err = sealed.Seal(data, passphrase(passphraseEnv), sealed.WithRand(e.generator.Source()))
					if err != nil {
						return fmt.Errorf("failed to seal bundle: %w", err)
					}
					e.logger.Info("bundle sealed", "path", out)
				}
				if err := os.WriteFile(out, data, 0600); err != nil {
					return fmt.Errorf("failed to write bundle: %w", err)
				}
			}
			return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintBundle(bundle, generated, out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "write the share bundle to this file")
	cmd.Flags().StringVar(&passphraseEnv, "passphrase-env", "", "encrypt the bundle file with the passphrase in this environment variable")
	return cmd
}

// passphrase reads the named environment variable.
func passphrase(name string) []byte {
	return []byte(os.Getenv(name))
}
