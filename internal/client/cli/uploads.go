package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rolandocepedadev/ccat/internal/client/listing"
	"github.com/rolandocepedadev/ccat/internal/client/models"
	"github.com/rolandocepedadev/ccat/internal/client/upload"
)

// progressStep is the granularity of printed upload progress, in percent.
const progressStep = 25

// Add queues local files. Paths that cannot be read are reported and
// skipped.
func (a *App) Add(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add <path>...")
	}
	a.enqueue(args)
	return nil
}

func (a *App) enqueue(paths []string) {
	sources := make([]upload.Source, 0, len(paths))
	for _, p := range paths {
		src, err := upload.FileSource(p)
		if err != nil {
			a.printf("Skipping %s: %v\n", p, err)
			continue
		}
		sources = append(sources, src)
	}
	if len(sources) > 0 {
		a.queue.Enqueue(sources...)
		a.printf("%d file(s) queued\n", len(sources))
	}
}

func (a *App) Queue(_ context.Context, args []string) error {
	if len(args) == 0 {
		a.printQueue()
		return nil
	}

	switch args[0] {
	case "clear":
		if err := a.queue.Reset(); err != nil {
			return err
		}
		a.printf("Queue cleared\n")
		return nil
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: queue rm <n>")
		}
		tasks := a.queue.Tasks()
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 || n > len(tasks) {
			return fmt.Errorf("no queued file %s", args[1])
		}
		if !a.queue.Remove(tasks[n-1].ID) {
			return fmt.Errorf("%s is already %s", tasks[n-1].Source.Name, tasks[n-1].Status)
		}
		a.printf("Removed %s\n", tasks[n-1].Source.Name)
		return nil
	}
	return errors.New("usage: queue [rm <n>|clear]")
}

func (a *App) printQueue() {
	tasks := a.queue.Tasks()
	if len(tasks) == 0 {
		a.printf("Queue is empty\n")
		return
	}
	for i, t := range tasks {
		line := fmt.Sprintf("%d  %s  %s  %s", i+1, t.Source.Name, listing.FormatSize(t.Source.Size), t.Status)
		switch t.Status {
		case upload.StatusUploading:
			line += fmt.Sprintf(" %d%%", t.Progress)
		case upload.StatusError:
			line += ": " + t.Error
		}
		a.printf("%s\n", line)
	}
}

// Upload queues the given paths and submits every pending task. Uploaded
// records join the listing; finished tasks are cleared from the queue.
func (a *App) Upload(ctx context.Context, args []string) error {
	a.enqueue(args)

	pending := 0
	for _, t := range a.queue.Tasks() {
		if t.Status == upload.StatusPending {
			pending++
		}
	}
	if pending == 0 {
		return errors.New("nothing to upload, use 'upload <path>...'")
	}

	var done []upload.Task
	err := a.queue.SubmitAll(ctx, func(ts []upload.Task) { done = ts })
	if err != nil {
		return err
	}

	records := make([]models.File, 0, len(done))
	for _, t := range done {
		records = append(records, *t.Result)
	}
	a.view.Add(records...)

	failed := 0
	for _, t := range a.queue.Tasks() {
		if t.Status == upload.StatusError {
			failed++
		}
	}
	a.printf("%d uploaded, %d failed\n", len(done), failed)

	if failed == 0 {
		_ = a.queue.Reset()
		a.resetProgress()
	}
	return nil
}

// renderProgress prints status changes and progress in coarse steps.
func (a *App) renderProgress(tasks []upload.Task) {
	a.progressMu.Lock()
	defer a.progressMu.Unlock()

	for _, t := range tasks {
		key := t.ID
		last, seen := a.shown[key]

		switch t.Status {
		case upload.StatusUploading:
			step := t.Progress / progressStep * progressStep
			if !seen || step > last {
				a.shown[key] = step
				a.printf("  %s %d%%\n", t.Source.Name, step)
			}
		case upload.StatusSuccess:
			if last != -1 {
				a.shown[key] = -1
				a.printf("  %s done\n", t.Source.Name)
			}
		case upload.StatusError:
			if last != -1 {
				a.shown[key] = -1
				a.printf("  %s: %s\n", t.Source.Name, t.Error)
			}
		}
	}
}

func (a *App) resetProgress() {
	a.progressMu.Lock()
	defer a.progressMu.Unlock()
	clear(a.shown)
}
