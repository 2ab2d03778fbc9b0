package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallyu/go-sss/internal/sealed"
	"github.com/smallyu/go-sss/internal/workflow"
)

func newCombineCmd(cfg *Config) *cobra.Command {
	var (
		in            string
		indices       []int
		passphraseEnv string
	)
	cmd := &cobra.Command{
		Use:     "combine",
		Short:   "Combine selected shares from a bundle",
		Example: `  sssctl combine --in shares.json --select 1,3
  SSS_PASSPHRASE=... sssctl combine --in shares.sealed --passphrase-env SSS_PASSPHRASE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cfg.newEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.flushMetrics(cmd.ErrOrStderr()) }()

			// #nosec G304 - Bundle path is provided by the user
			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("failed to read bundle: %w", err)
			}
			if sealed.IsSealed(data) {
				if passphraseEnv == "" {
					return errors.New("bundle is sealed; pass --passphrase-env")
				}
				if data, err = sealed.Open(data, passphrase(passphraseEnv)); err != nil {
					return fmt.Errorf("failed to open bundle: %w", err)
				}
			}
			bundle, err := workflow.UnmarshalBundle(data)
			if err != nil {
				return err
			}

			session := e.session()
			if err := session.Load(bundle); err != nil {
				return err
			}
			if len(indices) == 0 {
				indices = firstN(bundle.Params.Threshold)
			}
			if err := session.Select(indices...); err != nil {
				return err
			}
			recovery, err := session.Combine()
			if err != nil {
				return err
			}
			return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintRecovery(recovery)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "share bundle written by split --out")
	cmd.Flags().IntSliceVar(&indices, "select", nil, "1-based share indices to combine (default: first t)")
	cmd.Flags().StringVar(&passphraseEnv, "passphrase-env", "", "decrypt a sealed bundle with the passphrase in this environment variable")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func firstN(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
