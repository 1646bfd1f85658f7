// Package grader evaluates learner responses against an answer.
//
// # Usage
//
//	params, err := grader.DecodeParams(map[string]any{"atol": "0.05", "strict_syntax": false})
//	if err != nil {
//	    // broken question definition
//	}
//	result, err := grader.New().Evaluate("1.04 m", "1.0*metre", params)
//
// Evaluate returns an error only for authoring problems. Anything wrong
// with the response itself is reported as an incorrect Result with
// feedback.
package grader

import (
	"errors"
	"log/slog"
	"maps"
	"strings"

	"github.com/leapstack-labs/unitgrade/pkg/algebra"
	"github.com/leapstack-labs/unitgrade/pkg/buckingham"
	"github.com/leapstack-labs/unitgrade/pkg/compare"
)

// Result is the outcome of an evaluation.
type Result struct {
	IsCorrect     bool   `json:"is_correct" yaml:"is_correct"`
	Feedback      string `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	ResponseLatex string `json:"response_latex,omitempty" yaml:"response_latex,omitempty"`
	Comparison    string `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// Evaluator grades responses. It holds no per-call state and is safe for
// concurrent use.
type Evaluator struct {
	logger   *slog.Logger
	feedback map[string]string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithFeedback sets default feedback templates. Params.CustomFeedback
// takes precedence per key.
func WithFeedback(templates map[string]string) Option {
	return func(e *Evaluator) {
		e.feedback = maps.Clone(templates)
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate grades response against answer.
func (e *Evaluator) Evaluate(response, answer string, params Params) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	pl, err := newPipeline(params)
	if err != nil {
		return Result{}, err
	}
	mode := pl.mode
	e.logger.Debug("evaluating", "comparison", mode.String())

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Result{}, authoring("answer", ErrNoAnswer)
	}
	result := Result{Comparison: mode.String()}

	response = strings.TrimSpace(response)
	if response == "" {
		result.Feedback = FeedbackNoResponse
		return result, nil
	}
	response, err = pl.prepareResponse(response)
	if err != nil {
		return e.incorrect(result, err), nil
	}
	notes := advisories(response, pl)

	if mode == compare.BuckinghamPi {
		result, err = e.evaluateGroups(pl, response, answer, result)
	} else {
		result, err = e.evaluateExpression(pl, response, answer, result)
	}
	if err != nil {
		e.logger.Debug("authoring problem", "error", err)
		return Result{}, err
	}
	result.Feedback = appendNotes(result.Feedback, notes...)
	e.logger.Debug("evaluated", "comparison", mode.String(), "correct", result.IsCorrect)
	return result, nil
}

func (e *Evaluator) evaluateExpression(pl *pipeline, response, answer string, result Result) (Result, error) {
	chain := pl.conversion()
	answerText := chain.Apply(pl.normalize(answer))
	responseText := chain.Apply(pl.normalize(response))
	e.logger.Debug("rewritten", "response", responseText, "answer", answerText)

	ans, err := pl.parse(answerText)
	if err != nil {
		return Result{}, authoring("parse answer", err)
	}
	res, err := pl.parse(responseText)
	if err != nil {
		return e.incorrect(result, &ResponseError{Op: "parse response", Err: err}), nil
	}
	result.ResponseLatex = algebra.LaTeX(res, algebra.LatexOptions{})

	tol, err := pl.params.Tolerance()
	if err != nil {
		return Result{}, authoring("tolerance", err)
	}
	ok, err := compare.Compare(pl.mode, res, ans, tol)
	if err != nil {
		return Result{}, authoring("compare", err)
	}
	result.IsCorrect = ok
	return result, nil
}

func (e *Evaluator) evaluateGroups(pl *pipeline, response, answer string, result Result) (Result, error) {
	catalogue, err := e.catalogue(pl.params)
	if err != nil {
		return Result{}, err
	}
	quantities, err := pl.dimensions()
	if err != nil {
		return Result{}, authoring("quantities", err)
	}

	in := buckingham.Input{Quantities: quantities}
	if answer != buckingham.Omitted {
		in.Answer, err = pl.parseGroups(pl.normalize(answer))
		if err != nil {
			return Result{}, authoring("parse answer", err)
		}
	}
	in.Response, err = pl.parseGroups(pl.normalize(response))
	if err != nil {
		return e.incorrect(result, &ResponseError{Op: "parse response", Err: err}), nil
	}
	result.ResponseLatex = groupsLatex(in.Response, algebra.LatexOptions{})

	out, err := buckingham.New(catalogue).Validate(in)
	if err != nil {
		return Result{}, authoring("answer", err)
	}
	result.IsCorrect = out.Correct
	result.Feedback = out.Feedback
	if out.Problem != nil {
		e.logger.Debug("response problem", "key", string(out.Problem.Key))
	}
	return result, nil
}

// catalogue merges the evaluator defaults with the per-call templates.
func (e *Evaluator) catalogue(p Params) (buckingham.Catalogue, error) {
	templates := maps.Clone(e.feedback)
	if templates == nil {
		templates = map[string]string{}
	}
	maps.Copy(templates, p.CustomFeedback)
	c, err := buckingham.NewCatalogue(templates)
	if err != nil {
		return buckingham.Catalogue{}, authoring("custom feedback", err)
	}
	return c, nil
}

// incorrect turns a response problem into feedback.
func (e *Evaluator) incorrect(result Result, err error) Result {
	var re *ResponseError
	if errors.As(err, &re) {
		err = re.Err
	}
	e.logger.Debug("response rejected", "error", err)
	result.IsCorrect = false
	result.Feedback = err.Error()
	return result
}

func groupsLatex(groups []algebra.Expr, opts algebra.LatexOptions) string {
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = algebra.LaTeX(g, opts)
	}
	return strings.Join(parts, ",~")
}
