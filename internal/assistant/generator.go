package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
)

// Generator produces a reply to a question about the ledger.
type Generator interface {
	// Name identifies the generator in replies and logs.
	Name() string

	// Available reports whether the generator can currently be used.
	Available() bool

	Generate(ctx context.Context, question string, data *Context) (string, error)
}

// ErrNoGenerator is returned when no generator in a Chain produced a reply.
var ErrNoGenerator = errors.New("no generator available")

// Chain tries generators in order and returns the first successful reply.
// Unavailable generators are skipped; failures are logged and the next
// generator is tried.
type Chain []Generator

// Generate returns the reply and the name of the generator that produced it.
func (c Chain) Generate(ctx context.Context, question string, data *Context) (string, string, error) {
	for _, g := range c {
		if !g.Available() {
			continue
		}
		reply, err := g.Generate(ctx, question, data)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply, g.Name(), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", "", ctxErr
		}
		slog.Warn("Generator failed, falling back", "generator", g.Name(), "error", err)
	}
	return "", "", ErrNoGenerator
}

// Reply is the assistant's answer.
type Reply struct {
	Text   string
	Source string
}

// Assistant answers questions using a fresh Context for every call.
type Assistant struct {
	src   Source
	chain Chain
}

// New creates an Assistant reading from src. A RuleBased generator is
// appended to gens when none is present, so the chain always terminates.
func New(src Source, gens ...Generator) *Assistant {
	chain := Chain(gens)
	hasRules := false
	for _, g := range gens {
		if _, ok := g.(*RuleBased); ok {
			hasRules = true
		}
	}
	if !hasRules {
		chain = append(chain, NewRuleBased())
	}
	return &Assistant{src: src, chain: chain}
}

// Ask answers question.
func (a *Assistant) Ask(ctx context.Context, question string) (*Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &models.ValidationError{Field: "message", Reason: "must not be empty"}
	}

	data, err := LoadContext(ctx, a.src)
	if err != nil {
		return nil, err
	}

	text, source, err := a.chain.Generate(ctx, question, data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}
	return &Reply{Text: text, Source: source}, nil
}
