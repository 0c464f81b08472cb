// Package main demonstrates the use of the heatmap package to generate SVG heatmaps.
package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/stsysd/koyomi/heatmap"
	"github.com/stsysd/koyomi/utc"
)

func main() {
	// Generate sample data for one year
	data := generateYearData()

	// Create SVG heatmap
	svg := heatmap.GenerateYearlyHeatmapSVG(data, &heatmap.Options{
		CellSize:    12,
		CellPadding: 2,
		FontSize:    10,
		FontFamily:  "sans-serif",
		Colors:      []string{"#f0f0f0", "#c6e48b", "#7bc96f", "#239a3b", "#196127", "#0d4429"},
		Title:       "sample",
	})

	// Output to stdout
	fmt.Println(svg)
}

// generateYearData creates random activity data for the past year
func generateYearData() []heatmap.Data {
	endDate := utc.Now()
	startDate, err := endDate.AddDays(-365)
	if err != nil {
		startDate = utc.Epoch()
	}

	// Create data array in ascending order (newest last)
	var data []heatmap.Data

	for current := range utc.Days(startDate, endDate) {
		// Higher probability of activity on weekends
		var count int
		if current.Weekday() == utc.Saturday || current.Weekday() == utc.Sunday {
			count = rand.IntN(10) // 0-9
		} else {
			count = rand.IntN(6) // 0-5
		}

		// Add occasional spikes of activity
		if rand.IntN(20) == 0 {
			count += rand.IntN(20)
		}

		if count != 0 {
			data = append(data, heatmap.Data{
				Date:  current,
				Value: count,
			})
		}
	}

	return data
}
