package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reclamo-io/platform/pkg/common/logger"
)

// SpamDetector flags obvious spam via a chat-completion call. Detection is
// strictly conservative: only an exact "true" answer flags a complaint, and
// every failure or ambiguous answer passes it through as not spam.
type SpamDetector struct {
	llm   *LLMClient
	rules Rules
}

func NewSpamDetector(llm *LLMClient, rules Rules) *SpamDetector {
	return &SpamDetector{llm: llm, rules: rules}
}

func (d *SpamDetector) DetectSpam(ctx context.Context, text string) (bool, Outcome) {
	system := "You are a spam filter for a customer complaints service. Answer only true or false."
	user := fmt.Sprintf(`Decide whether the following message is spam rather than a genuine customer complaint. Signs of spam:
- %s

Answer with exactly one word: true or false.

Message: %s`, strings.Join(d.rules.SpamSigns, "\n- "), text)

	answer, err := d.llm.Complete(ctx, system, user)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return false, fallback("no credential")
		}
		logger.Log.WithError(err).Warn("spam detection failed")
		return false, fallback("call failed")
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "true":
		return true, ok()
	case "false":
		return false, ok()
	default:
		return false, fallback("answer outside vocabulary")
	}
}
