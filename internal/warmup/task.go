package warmup

import "github.com/dgnsrekt/barcache/internal/bars"

type Task struct {
	Request  bars.Request
	FileName string
}

func (t Task) String() string {
	return t.FileName
}

type TaskResult struct {
	Task    Task
	Success bool
	Cached  bool
	Rows    int
	Error   error
}
