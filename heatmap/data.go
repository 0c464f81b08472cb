package heatmap

import (
	"fmt"
	"html"
	"strings"

	"github.com/stsysd/koyomi/utc"
)

// Data holds a moment and the value counted at it.
type Data struct {
	Date  utc.Moment
	Value int
}

// Options configures rendering parameters.
type Options struct {
	CellSize    int      // size of each day cell (px)
	CellPadding int      // padding between cells (px)
	Colors      []string // array of N CSS colors for levels 0..N-1
	FontSize    int      // font size for month labels (px)
	FontFamily  string   // font family for labels
	Title       string   // title rendered above the grid
	ValueRanges []int    // optional thresholds for levels 1..N-1; len(ValueRanges)==len(Colors)-1

	// From and To bound the rendered days. Zero values default to the
	// first and last day in the data.
	From utc.Moment
	To   utc.Moment
}

func defaultOptions() *Options {
	return &Options{
		CellSize:    12,
		CellPadding: 2,
		FontSize:    10,
		FontFamily:  "sans-serif",
		Colors:      []string{"#f0f0f0", "#c6e48b", "#7bc96f", "#239a3b", "#196127", "#0d4429"},
	}
}

// dateRange resolves the rendered range from opts and the data, which is
// assumed to be sorted in ascending order.
func dateRange(data []Data, opts *Options) (utc.Moment, utc.Moment) {
	from, to := opts.From, opts.To
	if from.IsZero() {
		from = data[0].Date
	}
	if to.IsZero() {
		to = data[len(data)-1].Date
	}
	return from.Date(), to.Date()
}

// daysBetween counts the calendar days from the day of from to the day of to.
func daysBetween(from, to utc.Moment) int {
	return int((to.Date().Unix() - from.Date().Unix()) / (24 * 60 * 60))
}

// dateKey formats the day of m as YYYY-MM-DD.
func dateKey(m utc.Moment) string {
	return fmt.Sprintf("%04d-%02d-%02d", m.Year(), int(m.Month()), m.Day())
}

// displayDate formats the day of m for tooltips.
func displayDate(m utc.Moment) string {
	return fmt.Sprintf("%04d年%02d月%02d日", m.Year(), int(m.Month()), m.Day())
}

// level maps value to a color index. sup is one more than the largest value
// in the data (at least 5).
func level(value, sup int, opts *Options) int {
	levels := len(opts.Colors)

	// 0値の場合は常にレベル0（薄いグレー）を使用
	if value <= 0 {
		return 0
	}

	if len(opts.ValueRanges) == levels-1 {
		for idx, threshold := range opts.ValueRanges {
			if value < threshold {
				return idx
			}
		}
		return levels - 1
	}

	if sup <= 1 {
		return 1
	}
	// 1以上の値を1からlevels-1の範囲に分散
	lv := ((value-1)*(levels-2))/(sup-1) + 1
	return max(1, min(lv, levels-1))
}

// supValue finds the auto-scaling bound for the data.
func supValue(data []Data) int {
	sup := 5
	for _, d := range data {
		if d.Value+1 > sup {
			sup = d.Value + 1
		}
	}
	return sup
}

// titleHeight returns the vertical space taken by the title.
func titleHeight(opts *Options) int {
	if opts.Title == "" {
		return 0
	}
	return opts.FontSize + 8 // title text + padding
}

func writeTitle(sb *strings.Builder, opts *Options) {
	if opts.Title == "" {
		return
	}
	fmt.Fprintf(sb, `  <text x="%d" y="%d" class="title">%s</text>`+"\n",
		opts.CellPadding, opts.FontSize, html.EscapeString(opts.Title))
}

func writeHeader(sb *strings.Builder, width, height int, opts *Options) {
	fmt.Fprintf(sb, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height)
	fmt.Fprintf(sb, `  <style>.label{font-family:%s;font-size:%dpx;fill:#666}.title{font-family:%s;font-size:%dpx;fill:#333;font-weight:bold}</style>`+"\n",
		opts.FontFamily, opts.FontSize, opts.FontFamily, opts.FontSize)
}
