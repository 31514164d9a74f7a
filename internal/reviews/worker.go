package reviews

import (
	"context"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

type ScoreReviewArgs struct {
	ReviewID uuid.UUID `json:"review_id"`
}

func (ScoreReviewArgs) Kind() string { return "score_review" }

// ScoreWorker computes a review's sentiment score out of band so submission
// latency never depends on the scoring pass.
type ScoreWorker struct {
	river.WorkerDefaults[ScoreReviewArgs]
	repo Repo
}

func NewScoreWorker(repo Repo) *ScoreWorker {
	return &ScoreWorker{repo: repo}
}

func (w *ScoreWorker) Work(ctx context.Context, job *river.Job[ScoreReviewArgs]) error {
	rv, err := w.repo.GetByID(ctx, job.Args.ReviewID)
	if err != nil {
		return err
	}
	return w.repo.SetSentiment(ctx, rv.ID, SentimentScore(rv.Comment))
}
