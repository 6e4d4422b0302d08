package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-contacts-cli/internal/qif"
)

var (
	qifInput       string
	qifOutput      string
	qifStartNumber int
	qifAccount     string
)

var qifCmd = &cobra.Command{
	Use:   "qif",
	Short: "Convert a commission-checks CSV into a QIF file for GnuCash",
	Long: `Reads a comma-delimited checks CSV with "Commission" (amount) and
"Location" (payee) columns and writes a QIF bank-transaction file. Every
check is dated today and numbered sequentially from --start-number.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		checks, err := qif.ReadChecksCSV(qifInput)
		if err != nil {
			return err
		}

		f, err := os.Create(qifOutput)
		if err != nil {
			return eris.Wrapf(err, "qif: create %s", qifOutput)
		}
		defer f.Close() //nolint:errcheck

		if err := qif.Write(f, checks, qif.Options{
			AccountName: qifAccount,
			StartNumber: qifStartNumber,
		}); err != nil {
			return err
		}

		zap.L().Info("qif: complete",
			zap.String("output", qifOutput),
			zap.String("account", qifAccount),
			zap.Int("checks", len(checks)),
			zap.Int("first_check_number", qifStartNumber),
		)
		return nil
	},
}

func init() {
	qifCmd.Flags().StringVar(&qifInput, "input", "", "path to checks CSV (required)")
	qifCmd.Flags().StringVar(&qifOutput, "output", "", "output .qif path (required)")
	qifCmd.Flags().IntVar(&qifStartNumber, "start-number", 0, "starting check number (required)")
	qifCmd.Flags().StringVar(&qifAccount, "account", qif.DefaultAccountName, "QIF account name")
	_ = qifCmd.MarkFlagRequired("input")
	_ = qifCmd.MarkFlagRequired("output")
	_ = qifCmd.MarkFlagRequired("start-number")
	rootCmd.AddCommand(qifCmd)
}
