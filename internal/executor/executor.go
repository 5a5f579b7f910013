// Package executor resolves pending actions: it runs or discards the plan a
// conversation proposed, always clearing it from the store.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/tgagent/internal/audit"
	"github.com/ppiankov/tgagent/internal/output"
	"github.com/ppiankov/tgagent/internal/pending"
	"github.com/ppiankov/tgagent/internal/plan"
	"github.com/ppiankov/tgagent/internal/sandbox"
)

// DefaultTimeout bounds a confirmed command's wall-clock time.
const DefaultTimeout = 300 * time.Second

// Replies for plan resolution. Command output follows msgExecuted.
const (
	MsgNoPendingPlan = "No pending plan."
	MsgCancelled     = "Cancelled."
	MsgFileUpdated   = "File updated."
	msgExecuted      = "Executed.\nOutput:\n"
)

// ErrTargetChanged is returned when an edit's file was replaced by a link,
// or moved out of the workspace, between proposal and confirmation.
var ErrTargetChanged = errors.New("file changed since the edit was proposed")

// Status is the result of a Confirm or Cancel call.
type Status int

const (
	StatusNoPlan Status = iota
	StatusCancelled
	StatusExecuted
	StatusFailed
)

// Outcome is the operator-facing result of resolving a plan.
type Outcome struct {
	Status Status
	Text   string
}

// Recorder receives one entry per resolved plan.
type Recorder interface {
	Record(audit.Entry) error
}

// Executor performs confirmed plans.
type Executor struct {
	Workdir    string
	Timeout    time.Duration
	Store      pending.Store
	Runner     Runner
	// Sandbox, when set, re-resolves edit targets before writing.
	Sandbox    *sandbox.Sandbox
	// Audit is optional.
	Audit      Recorder
	ConfigHash string
	Log        logrus.FieldLogger
}

// Cancel discards the pending plan for chatID without side effects.
func (e *Executor) Cancel(ctx context.Context, chatID int64) Outcome {
	a, ok := e.Store.Take(chatID)
	if !ok {
		return Outcome{Status: StatusNoPlan, Text: MsgNoPendingPlan}
	}

	e.logger().WithFields(logrus.Fields{"chat_id": chatID, "plan_id": a.PlanID(), "kind": a.Kind()}).Info("plan cancelled")
	e.record(chatID, a, audit.OutcomeCancelled, "")
	return Outcome{Status: StatusCancelled, Text: MsgCancelled}
}

// Confirm executes the pending plan for chatID. The plan is removed from
// the store before anything runs, so it is gone however execution ends.
func (e *Executor) Confirm(ctx context.Context, chatID int64) Outcome {
	a, ok := e.Store.Take(chatID)
	if !ok {
		return Outcome{Status: StatusNoPlan, Text: MsgNoPendingPlan}
	}

	log := e.logger().WithFields(logrus.Fields{"chat_id": chatID, "plan_id": a.PlanID(), "kind": a.Kind()})

	var (
		text string
		err  error
	)
	switch act := a.(type) {
	case plan.Command:
		text, err = e.runCommand(ctx, act)
	case plan.FileEdit:
		text, err = e.writeFile(act)
	default:
		err = fmt.Errorf("unsupported action %T", a)
	}

	if err != nil {
		log.WithError(err).Warn("plan failed")
		e.record(chatID, a, audit.OutcomeFailed, err.Error())
		return Outcome{Status: StatusFailed, Text: "Error: " + err.Error()}
	}

	log.Info("plan executed")
	e.record(chatID, a, audit.OutcomeExecuted, "")
	return Outcome{Status: StatusExecuted, Text: text}
}

func (e *Executor) runCommand(ctx context.Context, c plan.Command) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runner := e.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	res, err := runner.Run(ctx, e.Workdir, c.Argv)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("command %q timed out after %s", c.Key, timeout)
		}
		return "", err
	}

	combined, n := output.Redact(res.Stdout + "\n" + res.Stderr)
	if n > 0 {
		e.logger().WithFields(logrus.Fields{"key": c.Key, "redacted": n}).Warn("secrets redacted from command output")
	}
	return msgExecuted + output.Format(combined), nil
}

func (e *Executor) writeFile(f plan.FileEdit) (string, error) {
	if e.Sandbox != nil {
		p, err := e.Sandbox.Resolve(f.RelPath)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrTargetChanged, err)
		}
		if p != f.Path {
			return "", fmt.Errorf("%s: %w", f.RelPath, ErrTargetChanged)
		}
	}
	info, err := os.Lstat(f.Path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %w", f.RelPath, ErrTargetChanged)
	}
	if err := os.WriteFile(f.Path, []byte(f.NewContent), info.Mode().Perm()); err != nil {
		return "", err
	}
	return MsgFileUpdated, nil
}

func (e *Executor) record(chatID int64, a plan.Action, outcome audit.Outcome, detail string) {
	if e.Audit == nil {
		return
	}
	err := e.Audit.Record(audit.Entry{
		PlanID:     a.PlanID(),
		ChatID:     chatID,
		Action:     audit.EntryAction{Kind: string(a.Kind()), Resource: a.Resource()},
		Outcome:    outcome,
		Detail:     detail,
		ConfigHash: e.ConfigHash,
	})
	if err != nil {
		e.logger().WithError(err).Error("audit record failed")
	}
}

func (e *Executor) logger() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}
