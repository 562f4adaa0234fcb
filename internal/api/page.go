package api

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/yourname/sleepscope/internal/markup"
	"github.com/yourname/sleepscope/internal/session"
	"github.com/yourname/sleepscope/internal/timeline"
)

//go:embed templates/page.html
var templatesFS embed.FS

func pageTemplate() *template.Template {
	funcs := template.FuncMap{
		"pct": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	}
	return template.Must(template.New("page.html").Funcs(funcs).ParseFS(templatesFS, "templates/page.html"))
}

// segment is a slice of the day axis, in percent.
type segment struct {
	Left  float64
	Width float64
}

type pageView struct {
	State        session.State
	AnalysisHTML template.HTML
	Ticks        []timeline.AxisTick
	Segments     []segment
	Duration     string
}

func newPageView(st session.State) pageView {
	v := pageView{
		State:        st,
		AnalysisHTML: markup.FormatAnalysis(st.Analysis),
		Ticks:        timeline.AxisTicks(),
	}
	if st.Metrics != nil {
		v.Segments = daySegments(*st.Metrics)
		v.Duration = timeline.FormatDuration(st.Metrics.TotalMinutes)
	}
	return v
}

// daySegments splits a sleep that runs past midnight into an evening piece
// and a morning piece so both fit on the 0-100 axis.
func daySegments(m timeline.Metrics) []segment {
	if m.SleepDurationPercent == 0 {
		return nil
	}
	end := m.SleepStartPercent + m.SleepDurationPercent
	if end <= 100 {
		return []segment{{Left: m.SleepStartPercent, Width: m.SleepDurationPercent}}
	}
	return []segment{
		{Left: m.SleepStartPercent, Width: 100 - m.SleepStartPercent},
		{Left: 0, Width: end - 100},
	}
}
