package heatmap

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stsysd/koyomi/utc"
)

func TestGenerateWeeklyHeatmapSVG_EmptyData(t *testing.T) {
	svg := GenerateWeeklyHeatmapSVG([]Data{}, testOptions())

	if svg != "" {
		t.Errorf("Expected empty string for empty data, got: %s", svg)
	}
}

func TestGenerateWeeklyHeatmapSVG_NilOptions(t *testing.T) {
	// デフォルトオプションで正常に動作することを確認
	data := []Data{
		{Date: utc.Now(), Value: 5},
	}

	svg := GenerateWeeklyHeatmapSVG(data, nil)

	if svg == "" {
		t.Error("Expected non-empty SVG with nil options")
	}

	if !strings.Contains(svg, "<svg") {
		t.Error("Expected SVG tag in output")
	}
}

func TestGenerateWeeklyHeatmapSVG_WithData(t *testing.T) {
	data := []Data{
		// 2025-05-21 10:00 のレコード（スロット2: 8-12時）
		{Date: mustCivil(t, 2025, 5, 21, 10, 0), Value: 3},
		// 2025-05-21 15:00 のレコード（スロット3: 12-16時）
		{Date: mustCivil(t, 2025, 5, 21, 15, 0), Value: 5},
		// 2025-05-22 09:00 のレコード（スロット2: 8-12時）
		{Date: mustCivil(t, 2025, 5, 22, 9, 0), Value: 2},
	}

	opts := testOptions()
	opts.Title = "Weekly Events"

	svg := GenerateWeeklyHeatmapSVG(data, opts)

	// SVGの基本構造を確認
	if !strings.Contains(svg, "<svg") {
		t.Error("Expected SVG tag in output")
	}

	if !strings.Contains(svg, "</svg>") {
		t.Error("Expected closing SVG tag in output")
	}

	if !strings.Contains(svg, "Weekly Events") {
		t.Error("Expected title in SVG")
	}

	// データポイントが含まれることを確認
	if !strings.Contains(svg, `data-date="2025-05-21" data-slot="2" data-value="3"`) {
		t.Error("Expected data point for 2025-05-21 slot 2")
	}

	if !strings.Contains(svg, `data-date="2025-05-21" data-slot="3" data-value="5"`) {
		t.Error("Expected data point for 2025-05-21 slot 3")
	}

	if !strings.Contains(svg, `data-date="2025-05-22" data-slot="2" data-value="2"`) {
		t.Error("Expected data point for 2025-05-22 slot 2")
	}

	// 値のないスロットは描画されないこと
	if got := strings.Count(svg, "<rect"); got != 3 {
		t.Errorf("Expected 3 cells, got %d", got)
	}
}

func TestGenerateWeeklyHeatmapSVG_TimeSlotCalculation(t *testing.T) {
	// 各時間帯のテスト
	testCases := []struct {
		hour         int
		expectedSlot int
	}{
		{0, 0},  // 0-4時
		{3, 0},  // 0-4時
		{4, 1},  // 4-8時
		{7, 1},  // 4-8時
		{8, 2},  // 8-12時
		{11, 2}, // 8-12時
		{12, 3}, // 12-16時
		{15, 3}, // 12-16時
		{16, 4}, // 16-20時
		{19, 4}, // 16-20時
		{20, 5}, // 20-24時
		{23, 5}, // 20-24時
	}

	for _, tc := range testCases {
		data := []Data{
			{Date: mustCivil(t, 2025, 5, 21, tc.hour, 0), Value: 1},
		}

		svg := GenerateWeeklyHeatmapSVG(data, testOptions())

		expectedSlotAttr := fmt.Sprintf(`data-slot="%d"`, tc.expectedSlot)
		if !strings.Contains(svg, expectedSlotAttr) {
			t.Errorf("Hour %d should be in slot %d, but SVG doesn't contain %s",
				tc.hour, tc.expectedSlot, expectedSlotAttr)
		}
	}
}

func TestGenerateWeeklyHeatmapSVG_SumsSameSlot(t *testing.T) {
	data := []Data{
		{Date: mustCivil(t, 2025, 5, 21, 10, 0), Value: 2},
		{Date: mustCivil(t, 2025, 5, 21, 11, 30), Value: 3},
	}

	svg := GenerateWeeklyHeatmapSVG(data, testOptions())

	if !strings.Contains(svg, `data-slot="2" data-value="5"`) {
		t.Errorf("Expected summed value in slot 2, got: %s", svg)
	}
}

func TestGenerateWeeklyHeatmapSVG_WeekAlignment(t *testing.T) {
	// 2025-05-21は水曜日なので、最初の列は月曜日（5月19日）の位置から始まる
	data := []Data{
		{Date: mustCivil(t, 2025, 5, 21, 10, 0), Value: 5},
	}

	svg := GenerateWeeklyHeatmapSVG(data, testOptions())

	// 最小8週間分（56日）の幅になること
	// 56 * (12 + 2) + 2 + 7 * 4 = 814
	if !strings.Contains(svg, `width="814"`) {
		t.Errorf("Expected minimum width of 8 weeks, got: %s", svg)
	}

	// 水曜日は月曜日から2列目（0始まり）に配置されること
	// x = 2 + 2 * (12 + 2) = 30
	if !strings.Contains(svg, `<rect x="30"`) {
		t.Errorf("Expected Wednesday cell at x=30, got: %s", svg)
	}
}

func TestGenerateWeeklyHeatmapSVG_MondayLabels(t *testing.T) {
	data := []Data{
		{Date: mustCivil(t, 2025, 5, 17, 10, 0), Value: 1},
		{Date: mustCivil(t, 2025, 5, 27, 10, 0), Value: 1},
	}

	svg := GenerateWeeklyHeatmapSVG(data, testOptions())

	// 月曜日（5/19と5/26）にラベルが付くこと
	for _, label := range []string{">05/19</text>", ">05/26</text>"} {
		if !strings.Contains(svg, label) {
			t.Errorf("Expected Monday label %s", label)
		}
	}
	if strings.Contains(svg, ">05/17</text>") {
		t.Error("Unexpected label for Saturday")
	}
}

func TestGenerateWeeklyHeatmapSVG_Tooltip(t *testing.T) {
	// 10:00のレコード（スロット2: 8-12時）
	data := []Data{
		{Date: mustCivil(t, 2025, 5, 21, 10, 0), Value: 5},
	}

	svg := GenerateWeeklyHeatmapSVG(data, testOptions())

	// ツールチップ（title要素）が含まれることを確認
	if !strings.Contains(svg, "<title>2025年05月21日 08:00-12:00: 5</title>") {
		t.Errorf("Expected tooltip with date and time slot, got: %s", svg)
	}
}
