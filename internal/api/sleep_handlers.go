package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepscope/internal"
	"github.com/yourname/sleepscope/internal/markup"
	"github.com/yourname/sleepscope/internal/service"
	"github.com/yourname/sleepscope/internal/session"
	"github.com/yourname/sleepscope/internal/timeline"
)

func GetPage(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := currentHolder(c).Snapshot()
		c.HTML(http.StatusOK, "page.html", newPageView(st))
	}
}

// PostAnalyze applies the form fields and runs one submission. The browser is
// always sent back to the page, which shows the outcome.
func PostAnalyze(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := currentHolder(c)
		h.SetBedtime(c.PostForm("bedtime"))
		h.SetWakeupTime(c.PostForm("wakeup_time"))
		h.SetDisturbances(service.ParseDisturbances(c.PostForm("disturbances")))

		requestID := c.GetString("request_id")
		switch err := h.Submit(c.Request.Context()); {
		case err == nil:
			app.Logger().Infof("[request_id=%s] analysis stored", requestID)
		case errors.Is(err, session.ErrSubmissionInFlight):
			app.Logger().Warnf("[request_id=%s] submission ignored: %v", requestID, err)
		case errors.Is(err, service.ErrInvalidInput):
			app.Logger().Infof("[request_id=%s] invalid form: %v", requestID, err)
		default:
			app.Logger().Errorf("[request_id=%s] analysis failed: %v", requestID, err)
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func GetSessionState(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), currentHolder(c).Snapshot(), nil)
	}
}

// PostSessionSubmit is the JSON form of the page's submit action on the
// visitor's own holder.
func PostSessionSubmit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.SleepRecordRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		h := currentHolder(c)
		h.SetBedtime(body.Bedtime)
		h.SetWakeupTime(body.WakeupTime)
		h.SetDisturbances(body.Disturbances)

		switch err := h.Submit(c.Request.Context()); {
		case err == nil:
			HandleSuccess(c, app.Logger(), h.Snapshot(), nil)
		case errors.Is(err, session.ErrSubmissionInFlight):
			HandleError(c, app.Logger(), err, 409, "Analysis already in progress")
		case errors.Is(err, service.ErrInvalidInput):
			HandleError(c, app.Logger(), err, 400, session.MsgInvalidInput)
		default:
			HandleError(c, app.Logger(), err, http.StatusBadGateway, session.MsgAnalysisFailed)
		}
	}
}

func PostTimeline(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.SleepRecordRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateSleepRecordRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		rec := body.Record()
		m := timeline.Calculate(rec)
		meta := map[string]any{"total_duration": timeline.FormatDuration(m.TotalMinutes)}
		HandleSuccess(c, app.Logger(), m, meta)
	}
}

type analysisResult struct {
	Record       internal.SleepRecord `json:"record"`
	Metrics      timeline.Metrics     `json:"metrics"`
	Analysis     string               `json:"analysis"`
	AnalysisHTML string               `json:"analysis_html"`
}

// PostAnalysis is the stateless JSON form of a submission.
func PostAnalysis(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.SleepRecordRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateSleepRecordRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, session.MsgInvalidInput)
			return
		}

		rec := body.Record()
		text, err := app.Analyzer().Analyze(c.Request.Context(), rec)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadGateway, session.MsgAnalysisFailed)
			return
		}

		HandleSuccess(c, app.Logger(), analysisResult{
			Record:       rec,
			Metrics:      timeline.Calculate(rec),
			Analysis:     text,
			AnalysisHTML: string(markup.FormatAnalysis(text)),
		}, nil)
	}
}

func NoRoute(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := fmt.Errorf("no route for %s %s", c.Request.Method, c.Request.URL.Path)
		HandleError(c, app.Logger(), err, 404, "Not found")
	}
}

// Recover answers a panicking handler with the 500 envelope.
func Recover(app App) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		HandleError(c, app.Logger(), fmt.Errorf("panic: %v", recovered), 500, "Internal error")
		c.Abort()
	}
}

func GetHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
