package recommend

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lexcodex/tunecouncil/llm"
)

// InputValidator classifies interactive answers with a small, cheap model.
// It satisfies collect.Validator and fails open on every internal error:
// blocking the user on a flaky validator call is a worse outcome than
// accepting a dubious genre. This is a product decision, not a fallback.
type InputValidator struct {
	client  llm.Completer
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewInputValidator wires the validator with its dedicated model. The model
// runs at temperature zero so verdicts stay repeatable.
func NewInputValidator(client llm.Completer, model string, timeout time.Duration, logger *zap.Logger) *InputValidator {
	return &InputValidator{client: client, model: model, timeout: timeout, logger: logger}
}

// Validate returns whether the input is acceptable for the attribute.
// Attributes without a validation prompt are accepted unconditionally.
func (v *InputValidator) Validate(ctx context.Context, attribute, input string) bool {
	prompt, ok := ValidationPrompts[attribute]
	if !ok {
		v.logger.Warn("no validation prompt for attribute", zap.String("attribute", attribute))
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	text, err := v.client.Complete(ctx, prompt, "User input: "+input, &llm.Options{Model: v.model})
	if err != nil {
		// Fail open: a validator outage must never block the user.
		v.logger.Error("validator call failed, accepting input",
			zap.String("attribute", attribute), zap.Error(err))
		return true
	}
	verdict := strings.TrimSpace(text)
	v.logger.Info("validated attribute",
		zap.String("attribute", attribute),
		zap.String("input", input),
		zap.String("verdict", verdict))
	return verdict == "1"
}
