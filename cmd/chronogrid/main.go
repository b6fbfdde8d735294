package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chronogrid/chronogrid"
	"github.com/chronogrid/chronogrid/column"
	"github.com/chronogrid/chronogrid/logger"
)

func main() {
	Execute()
}

var (
	startStr  string
	endStr    string
	everyStr  string
	closedStr string
	unitStr   string
	tz        string
	name      string
	raw       bool
	verbose   bool
)

func init() {
	viper.SetEnvPrefix("CHRONOGRID")

	rangeCmd.Flags().StringVar(&startStr, "start", "", "start of the range (RFC3339 or YYYY-MM-DD)")
	rangeCmd.Flags().StringVar(&endStr, "end", "", "end of the range (RFC3339 or YYYY-MM-DD)")
	rangeCmd.Flags().StringVar(&everyStr, "every", "1d", "interval between values, e.g. 1h30m, 1mo, 2w")
	rangeCmd.Flags().StringVar(&closedStr, "closed", "both", "boundary inclusion: both, left, right or none")
	rangeCmd.Flags().StringVar(&unitStr, "unit", "us", "time unit of the generated values: ns, us or ms")
	rangeCmd.Flags().StringVar(&name, "name", "datetime", "name of the generated column")
	rangeCmd.Flags().BoolVar(&raw, "raw", false, "print raw epoch integers instead of formatted times")
	rangeCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rangeCmd.Flags().StringVar(&tz, "tz", "", "IANA time zone for calendar-aware stepping")
	viper.BindEnv("TZ")
	if h := viper.GetString("TZ"); h != "" {
		tz = h
	}
}

var rangeCmd = &cobra.Command{
	Use:   "chronogrid",
	Short: "generate an ordered sequence of timestamps",
	Long: `Chronogrid generates the backing values of a temporal column: an ordered
sequence of epoch integers between a start and end instant, spaced by a fixed
or calendar-aware interval.`,
	Run: rangeF,
}

func rangeF(cmd *cobra.Command, args []string) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	log := logger.NewWithLevel(os.Stderr, level)
	defer log.Sync()

	col, err := generate()
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
	defer col.Release()

	log.Debug("generated range",
		zap.String("name", col.Name()),
		zap.Int("len", col.Len()),
	)

	var loc *time.Location
	if tz != "" {
		// Already validated during generation.
		loc, _ = chronogrid.SystemTimeZones().Resolve(tz)
	}
	unit, _ := chronogrid.ParseTimeUnit(unitStr)
	for _, v := range col.Int64s() {
		if raw {
			fmt.Println(v)
			continue
		}
		fmt.Println(unit.Time(v, loc).Format(time.RFC3339Nano))
	}
}

func generate() (*column.Column, error) {
	start, err := parseTime(startStr)
	if err != nil {
		return nil, errors.Wrap(err, "parsing --start")
	}
	end, err := parseTime(endStr)
	if err != nil {
		return nil, errors.Wrap(err, "parsing --end")
	}
	every, err := chronogrid.ParseDuration(everyStr)
	if err != nil {
		return nil, errors.Wrap(err, "parsing --every")
	}
	closed, err := chronogrid.ParseClosedWindow(closedStr)
	if err != nil {
		return nil, errors.Wrap(err, "parsing --closed")
	}
	unit, err := chronogrid.ParseTimeUnit(unitStr)
	if err != nil {
		return nil, errors.Wrap(err, "parsing --unit")
	}
	return column.DatetimeRange(name, start, end, every, closed, unit, tz, nil)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("value is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func Execute() {
	if err := rangeCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
