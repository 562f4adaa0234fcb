package api

import (
	"github.com/yourname/sleepscope/internal"
	"github.com/yourname/sleepscope/internal/analysis"
	"github.com/yourname/sleepscope/internal/session"
)

type App interface {
	Logger() internal.Logger
	Sessions() *session.Store
	Analyzer() analysis.Analyzer
}

type Application struct {
	logger   internal.Logger
	sessions *session.Store
	analyzer analysis.Analyzer
}

func NewApplication(logger internal.Logger, sessions *session.Store, analyzer analysis.Analyzer) *Application {
	return &Application{logger: logger, sessions: sessions, analyzer: analyzer}
}

func (a *Application) Logger() internal.Logger     { return a.logger }
func (a *Application) Sessions() *session.Store    { return a.sessions }
func (a *Application) Analyzer() analysis.Analyzer { return a.analyzer }

var _ App = (*Application)(nil)
