package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/docshuffle/internal/config"
	"github.com/dgallion1/docshuffle/internal/demo"
	"github.com/dgallion1/docshuffle/internal/docstore"
)

func testConfig() config.Config {
	return config.Config{
		WorkerCount:  2,
		MaxQueueSize: 8,
		JobTTL:       time.Hour,
		ShuffleSeed:  99,
	}
}

func waitFor(t *testing.T, job *Job, want JobStatus) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job.Snapshot().Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach %s, last %+v", job.ID, want, job.Snapshot())
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	docs := docstore.New(0)
	o := NewOrchestrator(testConfig(), demo.Schema(), docs, NewLatencyStats(time.Hour), slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	defer o.Stop()

	var jobs []*Job
	for i := range 4 {
		body := fmt.Sprintf("# Doc %d\n\na\n\nb\n\n## Sub\n\nc\n\nd\n", i)
		job := newJob(fmt.Sprintf("job-%d", i), "doc.md", body, true)
		if err := o.Submit(job); err != nil {
			t.Fatal(err)
		}
		jobs = append(jobs, job)
	}
	for _, job := range jobs {
		waitFor(t, job, StatusCompleted)
		if o.GetJob(job.ID) != job {
			t.Errorf("job %s not tracked", job.ID)
		}
	}
	if docs.Len() != 4 {
		t.Errorf("expected 4 documents, got %d", docs.Len())
	}
	if o.Latency().Snapshot().Count != 4 {
		t.Errorf("expected 4 latency samples")
	}
	if o.Documents() != docs {
		t.Error("Documents() should expose the shared store")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, demo.Schema(), docstore.New(0), NewLatencyStats(time.Hour), slog.New(slog.DiscardHandler))
	// Not started: nothing drains the queue.
	if err := o.Submit(newJob("a", "a.md", "x", true)); err != nil {
		t.Fatal(err)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("queue depth = %d", o.QueueDepth())
	}
	overflow := newJob("b", "b.md", "y", true)
	if err := o.Submit(overflow); err == nil {
		t.Fatal("expected queue full error")
	}
	if got := overflow.Snapshot().Phase; got != "queue_full" {
		t.Errorf("phase = %q", got)
	}
	o.Stop()
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	o := NewOrchestrator(testConfig(), demo.Schema(), docstore.New(0), NewLatencyStats(time.Hour), slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	o.Stop()
	o.Stop()
	if err := o.Submit(newJob("late", "a.md", "x", true)); !errors.Is(err, ErrStopped) {
		t.Fatalf("err = %v, want ErrStopped", err)
	}
}
