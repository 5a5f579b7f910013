package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/tgagent/internal/access"
	"github.com/ppiankov/tgagent/internal/allowlist"
	"github.com/ppiankov/tgagent/internal/editmsg"
	"github.com/ppiankov/tgagent/internal/executor"
	"github.com/ppiankov/tgagent/internal/plan"
)

// laneBacklogWarn is the queue depth at which a busy conversation is logged.
const laneBacklogWarn = 16

// Dispatcher consumes events and routes them by type.
type Dispatcher struct {
	Guard    access.Guard
	Commands *allowlist.Table
	Builder  *plan.Builder
	Executor *executor.Executor
	LLM      Asker
	Reply    Replier
	Log      logrus.FieldLogger
}

// Run reads events until ctx is done or events is closed. Events from
// different conversations are handled concurrently; events from the same
// conversation are handled one at a time in arrival order.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event) error {
	var wg sync.WaitGroup
	lanes := make(map[int64]*lane)
	defer func() {
		for _, l := range lanes {
			l.close()
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !d.Guard.Allowed(ev.UserID) {
				d.dropUnauthorized(ev)
				continue
			}

			l, exists := lanes[ev.ChatID]
			if !exists {
				l = newLane()
				lanes[ev.ChatID] = l
				wg.Add(1)
				go func() {
					defer wg.Done()
					l.drain(func(ev Event) { d.Handle(ctx, ev) })
				}()
			}
			l.push(ev)
			if n := l.pending(); n >= laneBacklogWarn && n%laneBacklogWarn == 0 {
				d.logger().WithFields(logrus.Fields{"chat_id": ev.ChatID, "queued": n}).Warn("conversation backlog growing")
			}
		}
	}
}

// Handle processes a single event synchronously.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) {
	if !d.Guard.Allowed(ev.UserID) {
		d.dropUnauthorized(ev)
		return
	}

	switch ev.Kind {
	case EventCallback:
		d.handleCallback(ctx, ev)
	case EventMessage:
		d.handleMessage(ctx, ev)
	}
}

func (d *Dispatcher) dropUnauthorized(ev Event) {
	fields := logrus.Fields{"chat_id": ev.ChatID}
	if ev.UserID != nil {
		fields["user_id"] = *ev.UserID
	}
	d.logger().WithFields(fields).Debug("dropping event from unauthorized sender")
}

func (d *Dispatcher) handleMessage(ctx context.Context, ev Event) {
	text := strings.TrimSpace(ev.Text)
	if !strings.HasPrefix(text, "/") {
		d.handleEdit(ctx, ev.ChatID, text)
		return
	}

	name, args := splitCommand(text)
	switch name {
	case "start":
		d.send(ctx, ev.ChatID, MsgReady)
	case "help":
		d.send(ctx, ev.ChatID, helpText(d.Commands.Keys()))
	case "run":
		d.handleRun(ctx, ev.ChatID, args)
	case "ask":
		d.handleAsk(ctx, ev.ChatID, args)
	default:
		d.send(ctx, ev.ChatID, MsgUnknownInput)
	}
}

func (d *Dispatcher) handleRun(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		d.send(ctx, chatID, MsgRunUsage)
		return
	}

	prev := d.pendingID(chatID)
	c, err := d.Builder.ProposeCommand(chatID, fields[0])
	if err != nil {
		d.logger().WithFields(logrus.Fields{"chat_id": chatID, "key": fields[0]}).Info("rejected command key")
		d.send(ctx, chatID, MsgNotAllowListed)
		return
	}

	d.logger().WithFields(logrus.Fields{"chat_id": chatID, "plan_id": c.ID, "key": c.Key, "replaced": prev}).Info("command proposed")
	d.propose(ctx, chatID, c)
}

func (d *Dispatcher) handleEdit(ctx context.Context, chatID int64, text string) {
	e, ok := editmsg.Parse(text)
	if !ok {
		d.send(ctx, chatID, MsgUnknownInput)
		return
	}

	log := d.logger().WithFields(logrus.Fields{"chat_id": chatID, "path": e.Path})
	prev := d.pendingID(chatID)
	f, err := d.Builder.ProposeEdit(chatID, e.Path, e.Content)
	switch {
	case errors.Is(err, plan.ErrInvalidPath):
		log.WithError(err).Info("rejected edit path")
		d.send(ctx, chatID, MsgInvalidPath)
		return
	case errors.Is(err, plan.ErrFileNotFound):
		d.send(ctx, chatID, MsgFileNotFound)
		return
	case err != nil:
		log.WithError(err).Warn("edit proposal failed")
		d.send(ctx, chatID, "Error: "+err.Error())
		return
	}

	log.WithFields(logrus.Fields{"plan_id": f.ID, "replaced": prev}).Info("file edit proposed")
	d.propose(ctx, chatID, f)
}

func (d *Dispatcher) handleAsk(ctx context.Context, chatID int64, question string) {
	if question == "" {
		d.send(ctx, chatID, MsgAskUsage)
		return
	}
	d.send(ctx, chatID, MsgThinking)
	d.send(ctx, chatID, d.LLM.Ask(ctx, question))
}

func (d *Dispatcher) handleCallback(ctx context.Context, ev Event) {
	if ev.CallbackID != "" {
		if err := d.Reply.AnswerCallback(ctx, ev.CallbackID); err != nil {
			d.logger().WithError(err).Warn("answer callback failed")
		}
	}

	var out executor.Outcome
	switch ev.Data {
	case CallbackApprove:
		out = d.Executor.Confirm(ctx, ev.ChatID)
	case CallbackCancel:
		out = d.Executor.Cancel(ctx, ev.ChatID)
	default:
		d.logger().WithFields(logrus.Fields{"chat_id": ev.ChatID, "data": ev.Data}).Debug("ignoring unknown callback")
		return
	}

	if ev.MessageID == 0 {
		d.send(ctx, ev.ChatID, out.Text)
		return
	}
	if err := d.Reply.EditMessage(ctx, ev.ChatID, ev.MessageID, out.Text); err != nil {
		d.logger().WithError(err).WithField("chat_id", ev.ChatID).Warn("edit message failed, sending instead")
		d.send(ctx, ev.ChatID, out.Text)
	}
}

func (d *Dispatcher) propose(ctx context.Context, chatID int64, a plan.Action) {
	if err := d.Reply.SendProposal(ctx, chatID, proposalText(a)); err != nil {
		d.logger().WithError(err).WithField("chat_id", chatID).Error("send proposal failed")
	}
}

// pendingID returns the id of the plan a new proposal would replace, or "".
// Events for one chat are handled serially, so the value stays accurate
// until the builder stores the new plan.
func (d *Dispatcher) pendingID(chatID int64) string {
	if d.Executor == nil || d.Executor.Store == nil {
		return ""
	}
	if a, ok := d.Executor.Store.Get(chatID); ok {
		return a.PlanID()
	}
	return ""
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string) {
	if err := d.Reply.Send(ctx, chatID, text); err != nil {
		d.logger().WithError(err).WithField("chat_id", chatID).Error("send message failed")
	}
}

func (d *Dispatcher) logger() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}

// splitCommand splits "/name@bot rest of text" into "name" and the trimmed
// remainder, preserving newlines in the remainder.
func splitCommand(text string) (string, string) {
	text = strings.TrimPrefix(text, "/")
	name, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		name, rest = text[:i], text[i:]
	}
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(rest)
}
