package bot

import (
	"fmt"
	"strings"

	"github.com/ppiankov/tgagent/internal/editmsg"
	"github.com/ppiankov/tgagent/internal/output"
	"github.com/ppiankov/tgagent/internal/plan"
)

const (
	MsgReady          = "Agent ready. Use /help to see the commands."
	MsgUnknownInput   = "Command not recognized. Use /help for examples."
	MsgRunUsage       = "Usage: /run <command_key>"
	MsgAskUsage       = "Usage: /ask <question>"
	MsgThinking       = "Thinking..."
	MsgNotAllowListed = "This command is not in the allow-list."
	MsgInvalidPath    = "Invalid file path."
	MsgFileNotFound   = "File not found."
	msgConfirm        = "Confirm?"
)

func helpText(keys []string) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	b.WriteString("- /run <command_key> (example: /run status)\n")
	b.WriteString("- /ask <question> - ask the LLM\n")
	b.WriteString("- edit <file_path> + new content (format below)\n\n")
	b.WriteString("New content format:\n")
	b.WriteString(editmsg.Format("<file_path>", "(new content)"))
	b.WriteString("\n\nCommand keys: ")
	b.WriteString(strings.Join(keys, ", "))
	return b.String()
}

func proposalText(a plan.Action) string {
	switch act := a.(type) {
	case plan.FileEdit:
		return fmt.Sprintf("Plan: %s\nDiff:\n%s\n\n%s", act.Description(), output.Format(act.Diff), msgConfirm)
	default:
		return fmt.Sprintf("Plan: %s\n%s", a.Description(), msgConfirm)
	}
}
