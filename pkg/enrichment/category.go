package enrichment

import (
	"context"
	"errors"
	"fmt"

	"github.com/reclamo-io/platform/pkg/common/logger"
)

// CategoryClassifier assigns a complaint to one of the three categories via
// a chat-completion call. The single safety property is that the result is
// always a member of the closed category set, whatever the upstream does.
type CategoryClassifier struct {
	llm   *LLMClient
	rules Rules
}

func NewCategoryClassifier(llm *LLMClient, rules Rules) *CategoryClassifier {
	return &CategoryClassifier{llm: llm, rules: rules}
}

func (c *CategoryClassifier) ClassifyCategory(ctx context.Context, text string) (Category, Outcome) {
	labels := c.rules.Categories
	system := "You are a customer complaint classification system. Answer with a single word, the category."
	user := fmt.Sprintf(`Determine the category of the customer complaint. Possible categories:
- %s (service problems, technical failures, SMS issues and the like)
- %s (problems with payments, invoices, refunds)
- %s (all other complaints)

Return exactly one word, the category, without quotes or JSON.

Customer complaint: %s`, labels.Technical, labels.Billing, labels.Other, text)

	answer, err := c.llm.Complete(ctx, system, user)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return CategoryOther, fallback("no credential")
		}
		logger.Log.WithError(err).Warn("category classification failed")
		return CategoryOther, fallback("call failed")
	}

	category, known := c.rules.lookup(answer)
	if !known {
		return CategoryOther, fallback("answer outside vocabulary")
	}
	return category, ok()
}
