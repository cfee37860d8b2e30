package dispatcher

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/samgozman/fin-pulse/composer"
	"github.com/samgozman/fin-pulse/editor"
	"github.com/samgozman/fin-pulse/internal/utils"
)

// UsageText is the reply to /start.
const UsageText = `Привет! Я присылаю геополитическую сводку: курсы, сырьё и важные новости.

/update - свежая сводка
/briefing - то же самое
/id - идентификатор этого чата`

// Command is an incoming slash command.
type Command struct {
	Name   string // command name without the leading slash and bot mention
	ChatID int64  // chat the command came from
	Args   string
}

// Handler processes one command.
type Handler func(ctx context.Context, cmd Command) error

// Replier sends a message back to the requesting chat.
type Replier interface {
	Reply(chatID int64, msg string, format composer.Format) error
}

// Preparer builds a briefing on demand.
type Preparer interface {
	Prepare(ctx context.Context, asOf time.Time) *editor.Edition
}

// Dispatcher routes commands to their handlers.
// Handlers share nothing writable, so commands are served concurrently.
type Dispatcher struct {
	handlers map[string]Handler
	replier  Replier
	editor   Preparer
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher with the start, update, briefing and id commands registered.
func NewDispatcher(r Replier, e Preparer, loc *time.Location) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
		replier:  r,
		editor:   e,
		location: loc,
		now:      time.Now,
		logger:   slog.Default(),
	}

	d.Handle("start", d.start)
	d.Handle("update", d.briefing)
	d.Handle("briefing", d.briefing)
	d.Handle("id", d.id)

	return d
}

// WithLogger sets the logger.
func (d *Dispatcher) WithLogger(l *slog.Logger) *Dispatcher {
	d.logger = l
	return d
}

// Handle registers h for the command name, replacing any previous handler.
func (d *Dispatcher) Handle(name string, h Handler) {
	d.handlers[name] = h
}

// Dispatch runs the handler of cmd. Unknown commands are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	h, ok := d.handlers[cmd.Name]
	if !ok {
		d.logger.Debug("[dispatcher] unknown command ignored", "command", cmd.Name, "chat_id", cmd.ChatID)
		return nil
	}

	d.logger.Info("[dispatcher] handling command", "command", cmd.Name, "chat_id", cmd.ChatID)
	return h(ctx, cmd)
}

// Listen serves commands until the channel is closed or ctx is done,
// then waits for the handlers in flight.
func (d *Dispatcher) Listen(ctx context.Context, commands <-chan Command) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			wg.Add(1)
			go func(cmd Command) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						d.logger.Error("[dispatcher] handler panicked", "command", cmd.Name, "panic", r)
					}
				}()

				if err := d.Dispatch(ctx, cmd); err != nil {
					d.logger.Error("[dispatcher] command failed", "command", cmd.Name, "chat_id", cmd.ChatID, "error", err)
					utils.CaptureSentryException("dispatcherCommandError", sentry.CurrentHub().Clone(), err)
				}
			}(cmd)
		}
	}
}

func (d *Dispatcher) start(_ context.Context, cmd Command) error {
	return d.replier.Reply(cmd.ChatID, UsageText, composer.PlainText)
}

func (d *Dispatcher) briefing(ctx context.Context, cmd Command) error {
	edition := d.editor.Prepare(ctx, d.now().In(d.location))
	return d.replier.Reply(cmd.ChatID, edition.Briefing.Text, edition.Briefing.Format)
}

func (d *Dispatcher) id(_ context.Context, cmd Command) error {
	return d.replier.Reply(cmd.ChatID, strconv.FormatInt(cmd.ChatID, 10), composer.PlainText)
}
