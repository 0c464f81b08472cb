package heatmap

import (
	"fmt"
	"strings"

	"github.com/stsysd/koyomi/utc"
)

// slotHours is the width of a row in the weekly heatmap.
const slotHours = 4

// GenerateWeeklyHeatmapSVG generates an SVG heatmap with hourly granularity
// Layout: 6 rows (4-hour slots) x N days (multiple weeks)
// Each row represents a 4-hour time slot (0-4, 4-8, 8-12, 12-16, 16-20, 20-24)
func GenerateWeeklyHeatmapSVG(data []Data, opts *Options) string {
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

	// map date+slot to value
	// key format: "2006-01-02-slot" where slot is 0-5
	valueMap := make(map[string]int, len(data))
	for _, d := range data {
		key := fmt.Sprintf("%s-%d", dateKey(d.Date), d.Date.Hour()/slotHours)
		valueMap[key] += d.Value
	}

	// align first column to Monday
	offset := from.Weekday().SinceMonday()
	days := max(offset+daysBetween(from, to)+1, 56) // minimum 8 weeks

	// compute dimensions
	th := titleHeight(opts)

	// calculate width considering extra spacing between weeks
	weeks := (days + 6) / 7
	weekSpacing := opts.CellPadding * 2 // extra spacing between Sunday and Monday
	width := days*(opts.CellSize+opts.CellPadding) + opts.CellPadding + (weeks-1)*weekSpacing
	height := 6*(opts.CellSize+opts.CellPadding) + opts.CellPadding + opts.FontSize + 4 + th

	var sb strings.Builder
	writeHeader(&sb, width, height, opts)
	writeTitle(&sb, opts)

	// find the maximum value for auto-scaling
	sup := 5
	for _, v := range valueMap {
		if v+1 > sup {
			sup = v + 1
		}
	}

	dateLabelY := opts.FontSize + th

	i := 0
	for current := range utc.Days(from, to) {
		pos := offset + i
		i++

		// calculate x position with extra spacing after Sunday
		x := opts.CellPadding + pos*(opts.CellSize+opts.CellPadding) + (pos/7)*weekSpacing

		// show date label for Monday
		if current.Weekday() == utc.Monday {
			fmt.Fprintf(&sb, `  <text x="%d" y="%d" class="label">%02d/%02d</text>`+"\n",
				x, dateLabelY, int(current.Month()), current.Day())
		}

		// draw 6 time slot cells for this day
		dk := dateKey(current)
		for slot := range 24 / slotHours {
			value, exists := valueMap[fmt.Sprintf("%s-%d", dk, slot)]
			if !exists {
				continue
			}

			y := opts.CellPadding + opts.FontSize + 4 + th + slot*(opts.CellSize+opts.CellPadding)

			// 各セルに矩形と、その中にtitle要素（ツールチップ）を追加
			fmt.Fprintf(&sb, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s" data-date="%s" data-slot="%d" data-value="%d">`+"\n",
				x, y, opts.CellSize, opts.CellSize, opts.Colors[level(value, sup, opts)], dk, slot, value)

			// 日付と時間帯をフォーマットして表示用の文字列を作成
			timeSlotLabel := fmt.Sprintf("%02d:00-%02d:00", slot*slotHours, (slot+1)*slotHours)
			fmt.Fprintf(&sb, `    <title>%s %s: %d</title>`+"\n", displayDate(current), timeSlotLabel, value)
			sb.WriteString(`  </rect>` + "\n")
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}
