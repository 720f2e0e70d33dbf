package service

import (
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Engine выполняет поиск дублей и cross-source сопоставление.
// Состояния между вызовами не держит: датасеты и параметры приходят аргументами.
type Engine struct {
	workers int
	log     zerolog.Logger
}

func NewEngine(workers int, logger zerolog.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{workers: workers, log: logger}
}

// forEachBlock запускает fn(i) для i в [0, n) не более чем в e.workers горутинах.
// Блоки независимы: fn(i) пишет только в свой слот результата.
func (e *Engine) forEachBlock(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	if e.workers == 1 || n == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
