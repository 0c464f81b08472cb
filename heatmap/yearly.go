// Package heatmap generates GitHub-like activity heatmaps as SVG strings.
package heatmap

import (
	"fmt"
	"strings"

	"github.com/stsysd/koyomi/utc"
)

// GenerateYearlyHeatmapSVG returns an SVG string representing the yearly heatmap.
// Each column is a week starting on Sunday and each cell a day between
// opts.From and opts.To; days without data are drawn with value 0.
// data should be sorted in ascending order by date.
func GenerateYearlyHeatmapSVG(data []Data, opts *Options) string {
	// default options
	if opts == nil {
		opts = defaultOptions()
	}

	if len(data) == 0 {
		return ""
	}

	from, to := dateRange(data, opts)
	if to.Before(from) {
		return ""
	}

	// map date string to count
	countMap := make(map[string]int, len(data))
	for _, d := range data {
		countMap[dateKey(d.Date)] += d.Value
	}

	// align first column to Sunday
	offset := from.Weekday().SinceSunday()
	days := daysBetween(from, to) + 1
	weeks := (offset + days + 6) / 7

	// compute dimensions
	th := titleHeight(opts)
	width := weeks*(opts.CellSize+opts.CellPadding) + opts.CellPadding
	height := 7*(opts.CellSize+opts.CellPadding) + opts.CellPadding + opts.FontSize + 4 + th

	var sb strings.Builder
	writeHeader(&sb, width, height, opts)
	writeTitle(&sb, opts)

	sup := supValue(data)
	monthLabelY := opts.FontSize + th
	lastMonth := utc.Month(0)

	i := 0
	for current := range utc.Days(from, to) {
		pos := offset + i
		i++
		w, row := pos/7, pos%7
		x := opts.CellPadding + w*(opts.CellSize+opts.CellPadding)

		// month labels on the first cell of each column
		if (row == 0 || pos == offset) && current.Day() <= 7 && current.Month() != lastMonth {
			fmt.Fprintf(&sb, `  <text x="%d" y="%d" class="label">%s</text>`+"\n",
				x, monthLabelY, current.Month().Short())
			lastMonth = current.Month()
		}

		key := dateKey(current)
		count := countMap[key]
		y := opts.CellPadding + opts.FontSize + 4 + th + row*(opts.CellSize+opts.CellPadding)

		// 各セルに矩形と、その中にtitle要素（ツールチップ）を追加
		fmt.Fprintf(&sb, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s" data-date="%s" data-count="%d">`+"\n",
			x, y, opts.CellSize, opts.CellSize, opts.Colors[level(count, sup, opts)], key, count)
		fmt.Fprintf(&sb, `    <title>%s (%s): %d</title>`+"\n", displayDate(current), current.Weekday().Short(), count)
		sb.WriteString(`  </rect>` + "\n")
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}
