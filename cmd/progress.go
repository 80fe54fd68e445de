package cmd

import (
	"github.com/gosuri/uiprogress"

	"table-pump/internal/engine"
)

// progress draws one bar per loaded table through the engine callbacks.
type progress struct {
	p   *uiprogress.Progress
	bar *uiprogress.Bar
}

func newProgress() *progress {
	p := uiprogress.New()
	p.Start()
	return &progress{p: p}
}

func (pr *progress) start(table string, rows int) {
	pr.bar = pr.p.AddBar(max(rows, 1)).AppendCompleted().PrependElapsed()
	pr.bar.PrependFunc(func(b *uiprogress.Bar) string {
		return table + ": "
	})
}

func (pr *progress) advance(n int) {
	if pr.bar != nil {
		_ = pr.bar.Set(min(pr.bar.Current()+n, pr.bar.Total))
	}
}

func (pr *progress) stop() { pr.p.Stop() }

// options returns engine options wired to the bar and the CLI settings.
func (pr *progress) options(clean bool) engine.Options {
	return engine.Options{
		Logger:     logger,
		BatchSize:  batchSize(),
		Clean:      clean,
		OnStart:    pr.start,
		OnProgress: pr.advance,
	}
}
