package cases

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/unitgrade/pkg/grader"
)

// Status classifies a graded case.
type Status string

// Case statuses.
const (
	StatusPass     Status = "pass"     // verdict matches expect, or no expectation
	StatusMismatch Status = "mismatch" // verdict differs from expect
	StatusError    Status = "error"    // authoring error
)

// Outcome is the result of one case.
type Outcome struct {
	Case     Case                  `json:"case" yaml:"case"`
	Result   grader.Result         `json:"result" yaml:"result"`
	Preview  *grader.PreviewResult `json:"preview,omitempty" yaml:"preview,omitempty"`
	Status   Status                `json:"status" yaml:"status"`
	Error    string                `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration         `json:"duration" yaml:"duration"`
}

// ParamsFunc decodes merged raw params, typically over configured
// defaults.
type ParamsFunc func(raw map[string]any) (grader.Params, error)

// Runner grades case files.
type Runner struct {
	Evaluator *grader.Evaluator
	Params    ParamsFunc
	// Jobs bounds concurrent cases; zero means GOMAXPROCS.
	Jobs   int
	Logger *slog.Logger
}

// Run grades every case in f. Outcomes keep the order of f.Cases.
// Authoring errors are recorded per case; the returned error is only
// set when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, f *File) ([]Outcome, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	decode := r.Params
	if decode == nil {
		decode = grader.DecodeParams
	}
	jobs := r.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(f.Cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, c := range f.Cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			out := r.grade(c, grader.MergeParams(f.Params, c.Params), decode)
			out.Duration = time.Since(start)
			logger.Debug("graded case", "case", c.Name, "status", out.Status, "duration", out.Duration)
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r *Runner) grade(c Case, raw map[string]any, decode ParamsFunc) Outcome {
	out := Outcome{Case: c}
	params, err := decode(raw)
	if err != nil {
		return failed(out, err)
	}
	if c.Preview {
		p, err := r.Evaluator.Preview(c.Response, params)
		if err != nil {
			return failed(out, err)
		}
		out.Preview = &p
		out.Status = StatusPass
		return out
	}
	res, err := r.Evaluator.Evaluate(c.Response, c.Answer, params)
	if err != nil {
		return failed(out, err)
	}
	out.Result = res
	out.Status = StatusPass
	if c.Expect != nil && *c.Expect != res.IsCorrect {
		out.Status = StatusMismatch
	}
	return out
}

func failed(out Outcome, err error) Outcome {
	out.Status = StatusError
	out.Error = err.Error()
	return out
}

// Summary counts outcomes by status.
type Summary struct {
	Total      int `json:"total"`
	Correct    int `json:"correct"`
	Passed     int `json:"passed"`
	Mismatched int `json:"mismatched"`
	Errors     int `json:"errors"`
}

// Summarize counts outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Result.IsCorrect {
			s.Correct++
		}
		switch o.Status {
		case StatusPass:
			s.Passed++
		case StatusMismatch:
			s.Mismatched++
		case StatusError:
			s.Errors++
		}
	}
	return s
}

// OK reports whether no case mismatched or failed.
func (s Summary) OK() bool {
	return s.Mismatched == 0 && s.Errors == 0
}
