// Package term runs the assessment wizard as an interactive terminal dialogue.
package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/model/config"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/secmon-lab/riskscore/pkg/usecase"
	"github.com/secmon-lab/riskscore/pkg/utils/logging"
)

// ErrAborted is returned when the operator quits or input ends before submission
var ErrAborted = goerr.New("assessment aborted")

const progressWidth = 20

type palette struct {
	title   *color.Color
	dim     *color.Color
	marker  *color.Color
	warn    *color.Color
	success *color.Color
	tiers   map[types.RiskTier]*color.Color
}

func newPalette() *palette {
	return &palette{
		title:   color.New(color.FgCyan, color.Bold),
		dim:     color.New(color.FgHiBlack),
		marker:  color.New(color.FgGreen, color.Bold),
		warn:    color.New(color.FgRed),
		success: color.New(color.FgGreen),
		tiers: map[types.RiskTier]*color.Color{
			types.RiskTierLow:      color.New(color.FgGreen, color.Bold),
			types.RiskTierModerate: color.New(color.FgYellow, color.Bold),
			types.RiskTierHigh:     color.New(color.FgRed, color.Bold),
		},
	}
}

func (p *palette) disable() {
	for _, c := range []*color.Color{p.title, p.dim, p.marker, p.warn, p.success} {
		c.DisableColor()
	}
	for _, c := range p.tiers {
		c.DisableColor()
	}
}

func (p *palette) tier(t types.RiskTier) string {
	if c, ok := p.tiers[t]; ok {
		return c.Sprint(t.String())
	}
	return t.String()
}

// Prompt reads operator commands from in and renders the wizard to out
type Prompt struct {
	in     *bufio.Scanner
	out    io.Writer
	colors *palette
}

type Option func(*Prompt)

// WithoutColor disables ANSI colors regardless of the terminal
func WithoutColor() Option {
	return func(p *Prompt) {
		p.colors.disable()
	}
}

func New(in io.Reader, out io.Writer, opts ...Option) *Prompt {
	p := &Prompt{
		in:     bufio.NewScanner(in),
		out:    out,
		colors: newPalette(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Prompt) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Prompt) readLine(label string) (string, error) {
	p.printf("%s ", p.colors.title.Sprint(label+">"))
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", goerr.Wrap(err, "failed to read input")
		}
		return "", goerr.Wrap(ErrAborted, "input closed")
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// report prints recoverable errors and returns the rest
func (p *Prompt) report(err error) error {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInvalidState):
		p.printf("%s\n", p.colors.warn.Sprint("! "+err.Error()))
		return nil
	case errors.Is(err, model.ErrSubmission):
		p.printf("%s\n", p.colors.warn.Sprint("! submission failed, you can retry: "+err.Error()))
		return nil
	default:
		return err
	}
}

// Run drives w until it is submitted. Validation and submission failures are shown and the
// operator may retry; ErrAborted is returned on quit or end of input.
func (p *Prompt) Run(ctx context.Context, w *usecase.Wizard) (*usecase.Outcome, error) {
	for {
		var err error
		switch w.CurrentState() {
		case usecase.StateAwaitingSubjectInfo:
			err = p.askSubject(w)
		case usecase.StateAnsweringCriterion:
			err = p.askCriterion(w)
		case usecase.StateReadyToReview:
			var outcome *usecase.Outcome
			outcome, err = p.review(ctx, w)
			if err == nil && outcome != nil {
				p.printOutcome(outcome)
				return outcome, nil
			}
		case usecase.StateSubmitted:
			return w.Outcome(), nil
		}

		if err != nil {
			if err := p.report(err); err != nil {
				return nil, err
			}
		}
	}
}

func (p *Prompt) askSubject(w *usecase.Wizard) error {
	label := "Subject name"
	if w.SubjectName() != "" {
		label += fmt.Sprintf(" [%s]", w.SubjectName())
	}
	name, err := p.readLine(label)
	if err != nil {
		return err
	}
	if name == "" {
		name = w.SubjectName()
	}

	branchID := w.BranchID()
	if w.IsEdit() {
		p.printf("Branch: %s\n", branchID)
	} else if w.RequireBranch() {
		label := "Branch"
		if branchID != "" {
			label += fmt.Sprintf(" [%s]", branchID)
		}
		input, err := p.readLine(label)
		if err != nil {
			return err
		}
		if input != "" {
			branchID = types.BranchID(input)
		}
	}

	if err := w.SetSubject(name, branchID); err != nil {
		return err
	}
	return w.Start()
}

func (p *Prompt) progressBar(w *usecase.Wizard) string {
	filled := int(w.ProgressFraction() * progressWidth)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"
}

func (p *Prompt) askCriterion(w *usecase.Wizard) error {
	criterion, ok := w.CurrentCriterion()
	if !ok {
		return goerr.Wrap(model.ErrInvalidState, "no current criterion")
	}
	mode := w.CurrentMode()

	p.printf("\n%s %s %d/%d answered\n",
		p.colors.title.Sprintf("(%d/%d) %s", w.CurrentIndex()+1, w.TotalSteps(), criterion.Category),
		p.colors.dim.Sprint(p.progressBar(w)),
		w.CompletedSteps(), w.TotalSteps())
	if criterion.Description != "" {
		p.printf("%s\n", p.colors.dim.Sprint(criterion.Description))
	}
	if mode == types.SelectionModeMultiple {
		p.printf("%s\n", p.colors.dim.Sprint("Select all that apply; enter a number again to deselect."))
	}

	for i, opt := range criterion.Options {
		mark := "[ ]"
		if w.IsSelected(criterion.ID, opt.ID) {
			mark = p.colors.marker.Sprint("[x]")
		}
		p.printf("  %s %d) %s\n", mark, i+1, opt.Label)
	}
	p.printf("%s\n", p.colors.dim.Sprint("number: choose | n: next | p: previous | g N: go to | q: quit"))

	line, err := p.readLine("Answer")
	if err != nil {
		return err
	}
	return p.dispatch(w, line, criterion.Options)
}

func (p *Prompt) dispatch(w *usecase.Wizard, line string, options []config.Option) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "q", "quit":
		return goerr.Wrap(ErrAborted, "quit by operator")
	case "n", "next":
		return w.Next()
	case "p", "prev", "previous":
		return w.Previous()
	case "g", "goto":
		if len(fields) != 2 {
			return goerr.Wrap(model.ErrValidation, "usage: g N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return goerr.Wrap(model.ErrValidation, "criterion number must be numeric", goerr.V("input", fields[1]))
		}
		return w.GoTo(n - 1)
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 || n > len(options) {
		return goerr.Wrap(model.ErrValidation, "unknown command", goerr.V("input", line))
	}
	return w.Answer(options[n-1].ID)
}

func (p *Prompt) review(ctx context.Context, w *usecase.Wizard) (*usecase.Outcome, error) {
	result, err := w.ComputeResult(ctx)
	if err != nil {
		return nil, err
	}

	catalog := w.Session().Catalog()
	p.printf("\n%s\n", p.colors.title.Sprint("Review"))
	p.printf("Subject: %s\n", w.SubjectName())
	if w.BranchID() != "" {
		p.printf("Branch:  %s\n", w.BranchID())
	}
	for i, c := range catalog.Criteria() {
		var labels []string
		for _, opt := range c.Options {
			if w.IsSelected(c.ID, opt.ID) {
				labels = append(labels, opt.Label)
			}
		}
		p.printf("  %d) %s: %s\n", i+1, c.Category, strings.Join(labels, ", "))
	}
	p.printf("Score: %d  Tier: %s\n", result.TotalScore, p.colors.tier(result.RiskTier))
	p.printf("%s\n", p.colors.dim.Sprint("s: submit | e N: edit criterion | p: previous | q: quit"))

	line, err := p.readLine("Review")
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	switch fields[0] {
	case "s", "submit":
		outcome, err := w.Submit(ctx)
		if err != nil {
			logging.From(ctx).Warn("assessment submission failed", "error", err)
			return nil, err
		}
		return outcome, nil
	case "e", "edit":
		if len(fields) != 2 {
			return nil, goerr.Wrap(model.ErrValidation, "usage: e N")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, goerr.Wrap(model.ErrValidation, "criterion number must be numeric", goerr.V("input", fields[1]))
		}
		return nil, w.GoTo(n - 1)
	case "p", "prev", "previous":
		return nil, w.Previous()
	case "q", "quit":
		return nil, goerr.Wrap(ErrAborted, "quit by operator")
	default:
		return nil, goerr.Wrap(model.ErrValidation, "unknown command", goerr.V("input", line))
	}
}

func (p *Prompt) printOutcome(outcome *usecase.Outcome) {
	if outcome.Unchanged {
		p.printf("%s\n", p.colors.dim.Sprintf("No changes to assessment %s", outcome.ID))
		return
	}
	p.printf("%s score %d, tier %s\n",
		p.colors.success.Sprintf("Saved assessment %s:", outcome.ID),
		outcome.Result.TotalScore,
		p.colors.tier(outcome.Result.RiskTier))
}
