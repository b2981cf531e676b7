// Package heatmap renders an optional day-of-week x hour-of-day activity
// export for a browsing session: how many records landed in each weekday
// hour, as a static HTML chart.
package heatmap

import (
	"fmt"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// PlotActivity buckets times by weekday and hour-of-day and writes an
// interactive heatmap to filename.
func PlotActivity(times []time.Time, filename string) error {
	var counts [7][24]uint64
	for _, t := range times {
		counts[int(t.Weekday())][t.Hour()]++
	}

	var data []opts.HeatMapData
	var maxCount uint64
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			count := counts[day][hour]
			if count > maxCount {
				maxCount = count
			}
			if count > 0 {
				data = append(data, opts.HeatMapData{
					Value: [3]interface{}{hour, day, count},
					Name:  fmt.Sprintf("%s %02d:00", weekdays[day], hour),
				})
			}
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Log Activity Heatmap",
			Width:           "180vh",
			Height:          "60vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Record Activity by Weekday and Hour",
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "item",
			Formatter: opts.FuncOpts(`function (params) {
		return params.name + '<br />Count: ' + params.value[2];
	}`),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show: opts.Bool(true),
			Min:  0,
			Max:  float32(maxCount),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#ffff8f", "#ff6d00", "#b30000"},
			},
			Orient: "vertical",
			Right:  "5%",
			Top:    "middle",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Hour",
			Type: "category",
			Data: hourLabels(),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Weekday",
			Type: "category",
			Data: weekdays,
		}),
	)

	hm.AddSeries("Activity", data)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(hm)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create heatmap file %s: %w", filename, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering heatmap: %w", err)
	}
	return nil
}

func hourLabels() []string {
	labels := make([]string, 24)
	for h := 0; h < 24; h++ {
		labels[h] = fmt.Sprintf("%02d", h)
	}
	return labels
}
