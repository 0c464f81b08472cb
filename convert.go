package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stsysd/koyomi/api"
	"github.com/stsysd/koyomi/clock"
	"github.com/stsysd/koyomi/config"
	"github.com/stsysd/koyomi/model"
	"github.com/stsysd/koyomi/utc"
	"go.uber.org/zap"
)

// newNowCmd は現在時刻を表示するコマンドです。
func newNowCmd(flags *globalFlags) *cobra.Command {
	var (
		precision int
		httpDate  bool
		ntpServer string
	)

	cmd := &cobra.Command{
		Use:   "now",
		Short: "現在のUTC時刻を表示する",
		Long: `現在のUTC時刻を表示します。

--ntp を指定するとNTPサーバーとの時刻差で補正します。
指定しない場合は KOYOMI_NTP_SERVER を使い、それも空ならシステム時計を使います。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePrecision(precision); err != nil {
				return err
			}

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ntp") {
				cfg.NTPServer = ntpServer
			}

			logger, err := flags.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			var c utc.Clock = clock.System{}
			if cfg.NTPServer != "" {
				ntpClock := clock.NewNTPClock(cfg.NTPServer, cfg.NTPInterval, clock.WithLogger(logger))
				if h := ntpClock.Health(); !h.Healthy {
					logger.Warn("NTP sync failed, falling back to the system clock",
						zap.String("server", cfg.NTPServer), zap.Error(h.Err))
				}
				c = ntpClock
			}

			now, err := utc.NowFrom(c)
			if err != nil {
				return fmt.Errorf("clock is unusable: %w", err)
			}
			return flags.printMoment(cmd, now, precision, httpDate)
		},
	}

	addPrecisionFlag(cmd, &precision)
	cmd.Flags().BoolVar(&httpDate, "http", false, "HTTP日付形式 (IMF-fixdate) で出力する")
	cmd.Flags().StringVar(&ntpServer, "ntp", "", "時刻の補正に使うNTPサーバー")
	return cmd
}

// newEpochCmd はエポックを表示するコマンドです。
func newEpochCmd(flags *globalFlags) *cobra.Command {
	var precision int

	cmd := &cobra.Command{
		Use:   "epoch",
		Short: "エポック (1970-01-01T00:00:00Z) を表示する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePrecision(precision); err != nil {
				return err
			}
			return flags.printMoment(cmd, utc.Epoch(), precision, false)
		},
	}

	addPrecisionFlag(cmd, &precision)
	return cmd
}

// newCivilCmd は年月日・時分秒を正規化して表示するコマンドです。
func newCivilCmd(flags *globalFlags) *cobra.Command {
	var precision int

	cmd := &cobra.Command{
		Use:   "civil YEAR MONTH DAY [HOUR [MINUTE [SECOND]]]",
		Short: "年月日と時分秒から瞬間を求める",
		Long: `年月日と時分秒から瞬間を求めます。

範囲外の値は正規化されます。SECOND には小数を指定できます。`,
		Example: `  koyomi civil 2024 2 29
  koyomi civil 2020 14 1
  koyomi civil 2024 1 5 11 44 58.25 --precision 2`,
		Args: cobra.RangeArgs(3, 6),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePrecision(precision); err != nil {
				return err
			}

			fields := make([]string, 6)
			copy(fields, args)

			civil, err := model.NewCivilFields(fields[0], fields[1], fields[2], fields[3], fields[4], fields[5])
			if err != nil {
				return err
			}
			m, err := civil.Moment()
			if err != nil {
				return err
			}
			return flags.printMoment(cmd, m, precision, false)
		},
	}

	addPrecisionFlag(cmd, &precision)
	return cmd
}

// newSecondsCmd はエポックからの秒数を瞬間に変換するコマンドです。
func newSecondsCmd(flags *globalFlags) *cobra.Command {
	var precision int

	cmd := &cobra.Command{
		Use:   "seconds SECONDS",
		Short: "エポックからの秒数を瞬間に変換する",
		Example: `  koyomi seconds 1704455098.25
  koyomi seconds -- -1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePrecision(precision); err != nil {
				return err
			}

			seconds, err := model.NewSeconds(args[0])
			if err != nil {
				return err
			}
			m, err := seconds.Moment()
			if err != nil {
				return err
			}
			return flags.printMoment(cmd, m, precision, false)
		},
	}

	addPrecisionFlag(cmd, &precision)
	return cmd
}

// newDaysCmd は期間内の日付を列挙するコマンドです。
func newDaysCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "days FROM TO",
		Short:   "FROM から TO までの日付を列挙する",
		Example: `  koyomi days 2024-02-27 2024-03-01`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// 両端とも指定されるのでデフォルトの基準日は使われない
			dateRange, err := model.NewDateRange(args[0], args[1], utc.Epoch())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for d := range utc.Days(dateRange.From(), dateRange.To()) {
				if flags.json {
					if err := enc.Encode(api.NewMomentResponse(d, 0)); err != nil {
						return err
					}
					continue
				}
				if _, err := fmt.Fprintf(out, "%04d-%02d-%02d %s\n", d.Year(), int(d.Month()), d.Day(), d.Weekday().Short()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}
