package notify

import (
	"context"

	"github.com/riverqueue/river"
)

type SendWorker struct {
	river.WorkerDefaults[SendArgs]
	notifier Notifier
}

func NewSendWorker(n Notifier) *SendWorker {
	return &SendWorker{notifier: n}
}

func (w *SendWorker) Work(ctx context.Context, job *river.Job[SendArgs]) error {
	args := job.Args
	return w.notifier.Notify(ctx, args.AccountID, args.Subject, args.Body)
}
