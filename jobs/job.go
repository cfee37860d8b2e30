package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/samgozman/fin-pulse/composer"
	"github.com/samgozman/fin-pulse/editor"
)

const (
	// DefaultRunTimeout bounds a single firing, including delivery.
	DefaultRunTimeout = 60 * time.Second
	flushTimeout      = 2 * time.Second
)

// JobFunc is a type for job function that will be executed by the scheduler.
type JobFunc func()

// Preparer builds the briefing of a run.
type Preparer interface {
	Prepare(ctx context.Context, asOf time.Time) *editor.Edition
}

// Publisher delivers the briefing to the broadcast chat.
type Publisher interface {
	Publish(msg string, format composer.Format) (pubID string, err error)
}

// BriefingJob prepares a briefing and sends it to the channel.
type BriefingJob struct {
	Name      string
	editor    Preparer
	publisher Publisher
	location  *time.Location
	now       func() time.Time
	out       io.Writer // destination of unpublished briefings
	logger    *slog.Logger
	options   *briefingJobOptions
}

type briefingJobOptions struct {
	onlyWithAlerts bool          // if true, the briefing is sent only when some headline matched
	shouldPublish  bool          // if true, will publish the briefing to the channel. Else: will just print it to the console (for development)
	timeout        time.Duration // time budget of a single run
}

// NewBriefingJob creates a new BriefingJob instance.
func NewBriefingJob(name string, editor Preparer, publisher Publisher) *BriefingJob {
	return &BriefingJob{
		Name:      name,
		editor:    editor,
		publisher: publisher,
		location:  time.UTC,
		now:       time.Now,
		out:       os.Stdout,
		logger:    slog.Default(),
		options: &briefingJobOptions{
			timeout: DefaultRunTimeout,
		},
	}
}

// OnlyWithAlerts makes the job skip delivery when no headline matched.
func (j *BriefingJob) OnlyWithAlerts() *BriefingJob {
	j.options.onlyWithAlerts = true
	return j
}

// Publish sets the flag that will publish the briefing to the channel. Else: will just print it to the console (for development).
func (j *BriefingJob) Publish() *BriefingJob {
	j.options.shouldPublish = true
	return j
}

// In sets the location the briefing date is rendered in.
func (j *BriefingJob) In(loc *time.Location) *BriefingJob {
	j.location = loc
	return j
}

// Timeout sets the time budget of a single run.
func (j *BriefingJob) Timeout(d time.Duration) *BriefingJob {
	j.options.timeout = d
	return j
}

// WithLogger sets the logger.
func (j *BriefingJob) WithLogger(l *slog.Logger) *BriefingJob {
	j.logger = l
	return j
}

// Run returns the job function that will be executed by the scheduler.
// Every call of the returned function is one independent firing.
func (j *BriefingJob) Run() JobFunc {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.options.timeout)
		defer cancel()

		jobName := fmt.Sprintf("Run.%s", j.Name)
		logger := j.logger.With("job", j.Name, "run_id", uuid.NewString())

		ctx, t := startTrace(ctx, jobName, logger)
		defer t.finish()

		span := t.span("Prepare")
		edition := j.editor.Prepare(ctx, j.now().In(j.location))
		span.Finish()
		t.success(fmt.Sprintf("Prepare returned %d quotes and %d alerts", len(edition.Quotes), len(edition.Alerts)))

		if j.options.onlyWithAlerts && !edition.HasAlerts() {
			logger.Info(fmt.Sprintf("[%s][Prepare] no alerts, skipping", jobName))
			return
		}

		if !j.options.shouldPublish {
			fmt.Fprintln(j.out, edition.Briefing.Text)
			return
		}

		span = t.span("Publish")
		pubID, err := j.publisher.Publish(edition.Briefing.Text, edition.Briefing.Format)
		span.Finish()
		if err != nil {
			t.fail("Publish", err)
			return
		}
		t.success(fmt.Sprintf("Publish returned message %s", pubID))
		logger.Info(fmt.Sprintf("[%s][Publish] briefing sent", jobName), "message_id", pubID, "alerts", len(edition.Alerts))
	}
}
