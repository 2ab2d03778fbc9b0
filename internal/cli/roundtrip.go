package cli

import (
	"github.com/spf13/cobra"
)

func newRoundTripCmd(cfg *Config) *cobra.Command {
	var (
		flags   secretFlags
		indices []int
	)
	cmd := &cobra.Command{
		Use:     "roundtrip",
		Short:   "Split a secret and immediately combine a selection of shares",
		Example: `  sssctl roundtrip --random --curve ed25519 -n 5 -t 3 --shares 5,2,4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cfg.newEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.flushMetrics(cmd.ErrOrStderr()) }()

			in, _, err := flags.input(e)
			if err != nil {
				return err
			}
			recovery, err := e.session().RoundTrip(in, indices...)
			if err != nil {
				return err
			}
			return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintRecovery(recovery)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntSliceVar(&indices, "select", nil, "1-based share indices to combine (default: first t)")
	return cmd
}
