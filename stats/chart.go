package stats

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// WriteChart renders an HTML page plotting score and reward for every record in s.
func WriteChart(w io.Writer, s *GameStats) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Episode results",
			Subtitle: fmt.Sprintf("run %s (%s)", s.RunID, s.Profile),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	labels := make([]string, 0, len(s.Games))
	scores := make([]opts.LineData, 0, len(s.Games))
	rewards := make([]opts.LineData, 0, len(s.Games))
	steps := make([]opts.LineData, 0, len(s.Games))
	played := 0
	for _, g := range s.Games {
		played += g.GamesCount
		labels = append(labels, fmt.Sprintf("%d", played))
		scores = append(scores, opts.LineData{Value: g.AverageScore})
		rewards = append(rewards, opts.LineData{Value: g.AverageReward})
		steps = append(steps, opts.LineData{Value: g.AverageSteps})
	}

	line.SetXAxis(labels).
		AddSeries("score", scores).
		AddSeries("reward", rewards).
		AddSeries("steps", steps)

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(w); err != nil {
		return errors.Wrap(err, "failed to render chart")
	}
	return nil
}
