package cli

import (
	"github.com/spf13/cobra"

	"github.com/smallyu/go-sss/pkg/sss"
)

func newIdentifiersCmd(cfg *Config) *cobra.Command {
	var (
		curveName string
		count     int
	)
	cmd := &cobra.Command{
		Use:   "identifiers",
		Short: "Draw unique curve-valid share identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := cfg.newEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = e.flushMetrics(cmd.ErrOrStderr()) }()

			if curveName == "" {
				curveName = e.cfg.Curve
			}
			curve, err := sss.ParseCurve(curveName)
			if err != nil {
				return err
			}
			if count == 0 {
				count = e.cfg.Shares
			}
			ids, err := e.generator.Generate(count, curve)
			if err != nil {
				return err
			}
			return NewPrinter(cfg.OutputFormat, cmd.OutOrStdout()).PrintIdentifiers(curve, ids)
		},
	}
	cmd.Flags().StringVar(&curveName, "curve", "", "curve (secp256k1, secp256r1, ed25519)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of identifiers")
	return cmd
}
