package notifier

import (
	"encoding/csv"
	"fmt"
	"io"

	"ChanSentinel/internal/model"
)

var csvHeader = []string{"代码", "名称", "价格", "涨跌%", "信号", "笔数", "顶分型", "底分型", "区间", "评级", "建议"}

// WriteCSV exports the full analysis table, one row per instrument.
func WriteCSV(w io.Writer, results []*model.AnalysisResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		zone := "-"
		if r.MinPrice > 0 || r.MaxPrice > 0 {
			zone = fmt.Sprintf("%.1f-%.1f", r.MinPrice, r.MaxPrice)
		}
		row := []string{
			r.Code,
			r.Name,
			fmt.Sprintf("%.2f", r.Price),
			fmt.Sprintf("%+.2f", r.Change),
			r.Signal,
			fmt.Sprintf("%d", r.StrokeCount),
			fmt.Sprintf("%d", r.TopCount),
			fmt.Sprintf("%d", r.BottomCount),
			zone,
			grade(r),
			r.Suggestion,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Code, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
