package upload

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/rolandocepedadev/ccat/internal/client/client"
	"github.com/rolandocepedadev/ccat/internal/client/models"
	"github.com/rolandocepedadev/ccat/internal/logging"
)

// ErrBusy is returned while a submission is running.
var ErrBusy = errors.New("upload already in progress")

// Uploader sends one source to the server and returns the created record.
type Uploader interface {
	Upload(ctx context.Context, src Source, progress func(sent, total int64)) (*models.File, error)
}

type apiUploader struct {
	api *client.APIClient
}

// APIUploader adapts the API client to Uploader.
func APIUploader(api *client.APIClient) Uploader {
	return apiUploader{api: api}
}

func (u apiUploader) Upload(ctx context.Context, src Source, progress func(sent, total int64)) (*models.File, error) {
	return u.api.UploadFile(ctx, client.Payload{
		Name:        src.Name,
		Size:        src.Size,
		ContentType: src.ContentType,
		Open:        src.Open,
	}, progress)
}

// newID is a seam for tests.
var newID = uuid.NewString

type Queue struct {
	uploader Uploader
	logger   logging.Logger

	mu       sync.Mutex
	tasks    []*Task
	running  bool
	onChange func([]Task)
}

func NewQueue(u Uploader, l logging.Logger) *Queue {
	return &Queue{uploader: u, logger: l.With("module", "upload")}
}

// OnChange registers fn to receive a snapshot after every state or
// progress change. fn runs outside the queue lock.
func (q *Queue) OnChange(fn func([]Task)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onChange = fn
}

// Enqueue appends one pending task per source and returns their ids.
func (q *Queue) Enqueue(sources ...Source) []string {
	q.mu.Lock()
	ids := make([]string, 0, len(sources))
	for _, src := range sources {
		t := &Task{ID: newID(), Source: src, Status: StatusPending}
		q.tasks = append(q.tasks, t)
		ids = append(ids, t.ID)
	}
	q.mu.Unlock()

	q.notify()
	return ids
}

// Remove drops a pending task. Tasks that are uploading or finished, and
// unknown ids, are left alone and false is returned.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	i := slices.IndexFunc(q.tasks, func(t *Task) bool { return t.ID == id })
	if i < 0 || q.tasks[i].Status != StatusPending {
		q.mu.Unlock()
		return false
	}
	q.tasks = slices.Delete(q.tasks, i, i+1)
	q.mu.Unlock()

	q.notify()
	return true
}

// Tasks returns a snapshot in enqueue order.
func (q *Queue) Tasks() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshot()
}

// Reset discards every task.
func (q *Queue) Reset() error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return ErrBusy
	}
	q.tasks = nil
	q.mu.Unlock()

	q.notify()
	return nil
}

// SubmitAll uploads pending tasks strictly one at a time until none is
// left, including tasks enqueued meanwhile. A failed task never stops the
// batch. onComplete, when not nil, is called once with the tasks that
// succeeded in this run. Cancelling ctx fails the current and remaining
// tasks; onComplete still runs.
func (q *Queue) SubmitAll(ctx context.Context, onComplete func([]Task)) error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return ErrBusy
	}
	q.running = true
	q.mu.Unlock()

	var succeeded []string
	for {
		t, src := q.next(ctx)
		if t == "" {
			break
		}

		rec, err := q.uploader.Upload(ctx, src, func(sent, total int64) {
			q.progress(t, sent, total)
		})
		if err != nil {
			msg := failureMessage(ctx, err)
			q.logger.Warn(ctx, "upload failed", "task", t, "name", src.Name, "reason", msg, "error", err)
			q.finish(t, nil, msg)
			continue
		}
		if rec == nil {
			q.logger.Warn(ctx, "upload returned no record", "task", t, "name", src.Name)
			q.finish(t, nil, msgUploadFailed)
			continue
		}
		q.logger.Info(ctx, "file uploaded", "task", t, "name", src.Name, "id", rec.ID)
		q.finish(t, rec, "")
		succeeded = append(succeeded, t)
	}

	q.mu.Lock()
	done := make([]Task, 0, len(succeeded))
	for _, t := range q.tasks {
		if slices.Contains(succeeded, t.ID) {
			done = append(done, *t)
		}
	}
	q.mu.Unlock()

	if onComplete != nil {
		onComplete(done)
	}
	return nil
}

// next moves the first pending task to uploading. When ctx is done every
// pending task fails instead. It clears the running flag when nothing is
// left, so a later Enqueue needs a new SubmitAll.
func (q *Queue) next(ctx context.Context) (string, Source) {
	q.mu.Lock()

	if ctx.Err() != nil {
		for _, t := range q.tasks {
			if t.Status == StatusPending {
				t.Status = StatusError
				t.Error = msgCancelled
			}
		}
		q.running = false
		q.mu.Unlock()
		q.notify()
		return "", Source{}
	}

	for _, t := range q.tasks {
		if t.Status == StatusPending {
			t.Status = StatusUploading
			t.Progress = 0
			id, src := t.ID, t.Source
			q.mu.Unlock()
			q.notify()
			return id, src
		}
	}

	q.running = false
	q.mu.Unlock()
	return "", Source{}
}

func (q *Queue) progress(id string, sent, total int64) {
	if total <= 0 {
		return
	}
	pct := int(sent * 100 / total)
	if pct > 100 {
		pct = 100
	}

	q.mu.Lock()
	t := q.find(id)
	if t == nil || t.Status != StatusUploading || pct <= t.Progress {
		q.mu.Unlock()
		return
	}
	t.Progress = pct
	q.mu.Unlock()

	q.notify()
}

func (q *Queue) finish(id string, rec *models.File, msg string) {
	q.mu.Lock()
	if t := q.find(id); t != nil {
		if rec != nil {
			t.Status = StatusSuccess
			t.Progress = 100
			t.Result = rec
		} else {
			t.Status = StatusError
			t.Error = msg
		}
	}
	q.mu.Unlock()

	q.notify()
}

func (q *Queue) find(id string) *Task {
	for _, t := range q.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (q *Queue) snapshot() []Task {
	out := make([]Task, len(q.tasks))
	for i, t := range q.tasks {
		out[i] = *t
	}
	return out
}

func (q *Queue) notify() {
	q.mu.Lock()
	fn := q.onChange
	snap := q.snapshot()
	q.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

func failureMessage(ctx context.Context, err error) string {
	var se *client.StatusError
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.As(err, &se), errors.Is(err, client.ErrUnauthorized):
		return msgUploadFailed
	default:
		return msgNetworkError
	}
}
