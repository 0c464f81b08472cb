package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stsysd/koyomi/api"
	"github.com/stsysd/koyomi/logging"
	"github.com/stsysd/koyomi/model"
	"github.com/stsysd/koyomi/utc"
	"go.uber.org/zap"
)

// globalFlags はすべてのサブコマンドに共通するフラグです。
type globalFlags struct {
	verbose bool
	json    bool
}

// newRootCmd はコマンドツリーを構築します。
func newRootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "koyomi",
		Short: "Convert between Unix seconds and UTC calendar moments",
		Long: `koyomi はエポック（1970-01-01T00:00:00Z）からの秒数と
UTCの年月日・時分秒を相互に変換します。

範囲外のフィールドは正規化され、エポックより前の瞬間はエラーになります。
serve サブコマンドでイベントを記録するHTTPサーバーを起動します。`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "詳細なログを標準エラー出力に出す")
	cmd.PersistentFlags().BoolVar(&flags.json, "json", false, "JSON形式で出力する")

	cmd.AddCommand(
		newNowCmd(&flags),
		newEpochCmd(&flags),
		newCivilCmd(&flags),
		newSecondsCmd(&flags),
		newDaysCmd(&flags),
		newServeCmd(&flags),
		newMigrateCmd(&flags),
	)
	return cmd
}

// logger は --verbose のときだけ出力するロガーを返します。
func (f *globalFlags) logger() (*zap.Logger, error) {
	if !f.verbose {
		return zap.NewNop(), nil
	}
	return logging.New("debug", "")
}

// printMoment は瞬間を出力します。
func (f *globalFlags) printMoment(cmd *cobra.Command, m utc.Moment, precision int, httpDate bool) error {
	out := cmd.OutOrStdout()

	if f.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewMomentResponse(m, precision))
	}

	if httpDate {
		_, err := fmt.Fprintln(out, m.HTTPDate())
		return err
	}
	_, err := fmt.Fprintln(out, m.BasicTimestampWithFraction(precision))
	return err
}

// addPrecisionFlag は --precision フラグを登録します。
func addPrecisionFlag(cmd *cobra.Command, precision *int) {
	cmd.Flags().IntVarP(precision, "precision", "p", model.DefaultPrecision,
		fmt.Sprintf("小数秒の桁数 (0-%d)", model.MaxPrecision))
}

func validatePrecision(precision int) error {
	if precision < 0 || precision > model.MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d, got %d", model.MaxPrecision, precision)
	}
	return nil
}
