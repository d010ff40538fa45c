package audit

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/provlog/pkg/interfaces"
	"github.com/m-mizutani/provlog/pkg/model"
	"github.com/m-mizutani/provlog/pkg/service/ledger"
	"github.com/m-mizutani/provlog/pkg/utils/logging"
)

// FallbackMessage is returned when there are no recorded bindings to
// explain. No external tool is invoked in that case.
const FallbackMessage = "I have not recorded any recent activity that I can explain."

// UseCase assembles the full binding corpus and drives the two
// external collaborators: expansion into a provenance graph, then
// narration into natural-language sentences.
type UseCase struct {
	ledger   *ledger.Ledger
	expander interfaces.Expander
	narrator interfaces.Narrator
	plans    []string
	profile  string
}

// NewInput contains parameters for creating the audit usecase
type NewInput struct {
	Ledger   *ledger.Ledger
	Expander interfaces.Expander
	Narrator interfaces.Narrator
	Plans    []string
	Profile  string
}

func New(input NewInput) *UseCase {
	return &UseCase{
		ledger:   input.Ledger,
		expander: input.Expander,
		narrator: input.Narrator,
		plans:    input.Plans,
		profile:  input.Profile,
	}
}

// Explain returns the ordered explanation sentences for the recorded
// activity. Tool failures are terminal for this request only; the
// recorded state is untouched.
func (u *UseCase) Explain(ctx context.Context) ([]string, error) {
	bindings, err := u.ledger.CollectAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return []string{FallbackMessage}, nil
	}

	corpus, err := model.EncodeString(bindings)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("expanding binding corpus", "bindings", len(bindings))
	document, err := u.expander.Expand(ctx, corpus)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to expand binding corpus")
	}

	narratives, err := u.narrator.Narrate(ctx, document, u.plans, u.profile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to narrate provenance graph")
	}

	var sentences []string
	for _, plan := range u.plans {
		sentences = append(sentences, SplitParagraphs(narratives[plan])...)
	}
	return sentences, nil
}

// SplitParagraphs splits narrative text on blank-line boundaries,
// trims each paragraph, and drops empty ones.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
