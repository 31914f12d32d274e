package warmup

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dgnsrekt/barcache/internal/bars"
)

// BarLoader is the part of loader.Loader the warmup pool needs.
type BarLoader interface {
	FileName(req bars.Request) string
	Cached(req bars.Request) (bool, error)
	Load(ctx context.Context, req bars.Request) (*bars.Table, error)
}

type Manager struct {
	loader  BarLoader
	workers int
	logger  *zap.Logger
}

type BatchResult struct {
	Total      int
	Fetched    int
	Cached     int
	Duplicates int
	Failed     int
	Errors     []string
}

func NewManager(loader BarLoader, workers int, logger *zap.Logger) *Manager {
	if workers < 1 {
		workers = 1
	}
	return &Manager{
		loader:  loader,
		workers: workers,
		logger:  logger,
	}
}

// Tasks converts requests into tasks, dropping requests whose cache file is
// already claimed by an earlier request so no two workers write the same file.
func (m *Manager) Tasks(requests []bars.Request) (tasks []Task, duplicates int) {
	seen := make(map[string]bool)
	for _, req := range requests {
		name := m.loader.FileName(req)
		if seen[name] {
			m.logger.Debug("skipping duplicate cache key", zap.String("file", name))
			duplicates++
			continue
		}
		seen[name] = true
		tasks = append(tasks, Task{Request: req, FileName: name})
	}
	return tasks, duplicates
}

func (m *Manager) Execute(ctx context.Context, requests []bars.Request) (*BatchResult, error) {
	tasks, duplicates := m.Tasks(requests)
	result := &BatchResult{Total: len(requests), Duplicates: duplicates}

	if len(tasks) == 0 {
		return result, nil
	}

	jobs := make(chan Task, len(tasks))
	results := make(chan TaskResult, len(tasks))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			m.worker(ctx, workerID, jobs, results)
		}(i)
	}

	// Send jobs
	go func() {
		defer close(jobs)
		for _, task := range tasks {
			select {
			case <-ctx.Done():
				return
			case jobs <- task:
			}
		}
	}()

	// Wait for workers and close results
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results
	for r := range results {
		switch {
		case r.Cached:
			result.Cached++
		case r.Success:
			result.Fetched++
		default:
			result.Failed++
			if r.Error != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.Task, r.Error))
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (m *Manager) worker(ctx context.Context, id int, jobs <-chan Task, results chan<- TaskResult) {
	for task := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := m.processTask(ctx, task)

		select {
		case <-ctx.Done():
			return
		case results <- result:
		}
	}
}

func (m *Manager) processTask(ctx context.Context, task Task) TaskResult {
	result := TaskResult{Task: task}

	cached, err := m.loader.Cached(task.Request)
	if err != nil {
		result.Error = err
		return result
	}
	if cached {
		m.logger.Debug("already cached", zap.String("task", task.String()))
		result.Cached = true
		result.Success = true
		return result
	}

	m.logger.Info("warming", zap.String("task", task.String()))

	table, err := m.loader.Load(ctx, task.Request)
	if err != nil {
		result.Error = err
		return result
	}

	result.Success = true
	result.Rows = table.Len()
	m.logger.Info("warmed", zap.String("task", task.String()), zap.Int("rows", result.Rows))

	return result
}
