package output

import (
	"regexp"
	"strings"
)

// secretPatterns match known API key and token formats in command output.
// These detect actual credential values, not variable names.
var secretPatterns = []*regexp.Regexp{
	// Anthropic keys: sk-ant-...
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-]{20,}`),
	// OpenRouter keys: sk-or-v1-...
	regexp.MustCompile(`sk-or-[a-zA-Z0-9\-]{20,}`),
	// OpenAI keys: sk-...
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),
	// Groq keys: gsk_...
	regexp.MustCompile(`gsk_[a-zA-Z0-9]{20,}`),
	// Telegram bot tokens: <digits>:<35 chars>
	regexp.MustCompile(`\b\d{6,12}:[A-Za-z0-9_\-]{30,}`),
	// Generic long hex tokens (64+ chars)
	regexp.MustCompile(`\b[a-f0-9]{64,}\b`),
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-_.]{20,}`),
}

// RedactPlaceholder replaces matched secrets in output.
const RedactPlaceholder = "[REDACTED]"

// envKeyValuePattern matches KEY=VALUE lines where KEY is a sensitive env
// var name, as printed by `env`, `set` or `export -p`.
var envKeyValuePattern = regexp.MustCompile(
	`(?im)^(?:declare -x |export )?` +
		`(TELEGRAM_\w*|OPENROUTER_\w*|OPENAI_\w*|ANTHROPIC_\w*|GROQ_\w*|TGAGENT_\w*|API_KEY|API_SECRET)` +
		`[= ].*$`,
)

// Redact masks leaked credentials in command output and returns the
// redacted copy together with the number of matches.
func Redact(text string) (string, int) {
	count := 0
	result := text
	for _, re := range secretPatterns {
		if matches := re.FindAllString(result, -1); len(matches) > 0 {
			count += len(matches)
			result = re.ReplaceAllString(result, RedactPlaceholder)
		}
	}

	if envMatches := envKeyValuePattern.FindAllString(result, -1); len(envMatches) > 0 {
		count += len(envMatches)
		result = envKeyValuePattern.ReplaceAllString(result, RedactPlaceholder)
	}

	for strings.Contains(result, RedactPlaceholder+"\n"+RedactPlaceholder) {
		result = strings.ReplaceAll(result, RedactPlaceholder+"\n"+RedactPlaceholder, RedactPlaceholder)
	}

	return result, count
}
