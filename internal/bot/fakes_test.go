package bot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/tgagent/internal/access"
	"github.com/ppiankov/tgagent/internal/allowlist"
	"github.com/ppiankov/tgagent/internal/executor"
	"github.com/ppiankov/tgagent/internal/pending"
	"github.com/ppiankov/tgagent/internal/plan"
	"github.com/ppiankov/tgagent/internal/sandbox"
)

const (
	operatorID = int64(1001)
	chatID     = int64(5005)
)

type sent struct {
	ChatID    int64
	Text      string
	Proposal  bool
	Edited    bool
	MessageID int
}

type recordingReplier struct {
	mu       sync.Mutex
	messages []sent
	answered []string
}

func (r *recordingReplier) Send(ctx context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, sent{ChatID: chatID, Text: text})
	return nil
}

func (r *recordingReplier) SendProposal(ctx context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, sent{ChatID: chatID, Text: text, Proposal: true})
	return nil
}

func (r *recordingReplier) AnswerCallback(ctx context.Context, callbackID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answered = append(r.answered, callbackID)
	return nil
}

func (r *recordingReplier) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, sent{ChatID: chatID, Text: text, Edited: true, MessageID: messageID})
	return nil
}

func (r *recordingReplier) all() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.messages...)
}

func (r *recordingReplier) last(t *testing.T) sent {
	t.Helper()
	msgs := r.all()
	require.NotEmpty(t, msgs, "no messages sent")
	return msgs[len(msgs)-1]
}

type countingRunner struct {
	mu    sync.Mutex
	calls [][]string
}

func (c *countingRunner) Run(ctx context.Context, dir string, argv []string) (*executor.RunResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, argv)
	return &executor.RunResult{Stdout: "ran " + argv[0]}, nil
}

func (c *countingRunner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// gatedRunner blocks every run until release is closed.
type gatedRunner struct {
	started chan struct{}
	release chan struct{}
}

func newGatedRunner() *gatedRunner {
	return &gatedRunner{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gatedRunner) Run(ctx context.Context, dir string, argv []string) (*executor.RunResult, error) {
	select {
	case g.started <- struct{}{}:
	default:
	}
	<-g.release
	return &executor.RunResult{Stdout: "done"}, nil
}

type stubAsker struct {
	questions []string
}

func (s *stubAsker) Ask(ctx context.Context, q string) string {
	s.questions = append(s.questions, q)
	return "answer: " + q
}

type harness struct {
	d      *Dispatcher
	reply  *recordingReplier
	runner *countingRunner
	store  *pending.Memory
	llm    *stubAsker
	root   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sb, err := sandbox.New(t.TempDir())
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	store := pending.NewMemory()
	runner := &countingRunner{}
	reply := &recordingReplier{}
	llm := &stubAsker{}
	cmds := allowlist.Default()

	d := &Dispatcher{
		Guard:    access.Guard{UserID: operatorID},
		Commands: cmds,
		Builder:  &plan.Builder{Commands: cmds, Sandbox: sb, Store: store},
		Executor: &executor.Executor{
			Workdir: sb.Root(),
			Timeout: 5 * time.Second,
			Store:   store,
			Runner:  runner,
			Sandbox: sb,
			Log:     log,
		},
		LLM:   llm,
		Reply: reply,
		Log:   log,
	}
	return &harness{d: d, reply: reply, runner: runner, store: store, llm: llm, root: sb.Root()}
}

func (h *harness) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.root, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func operator() *int64 {
	id := operatorID
	return &id
}

func message(text string) Event {
	return Event{Kind: EventMessage, ChatID: chatID, UserID: operator(), Text: text}
}

func callback(data string) Event {
	return Event{Kind: EventCallback, ChatID: chatID, UserID: operator(), CallbackID: "cb-1", Data: data, MessageID: 77}
}
