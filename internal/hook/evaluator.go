package hook

import (
	"errors"
	"fmt"
	"io"

	"github.com/adrianpk/layerguard/internal/logger"
	"github.com/adrianpk/layerguard/internal/policy"
)

var log = logger.New("hook")

// Outcome says how an invocation ended.
type Outcome int

const (
	// OutcomeDecided means the policy produced the decision.
	OutcomeDecided Outcome = iota
	// OutcomeDecodeFailed means the event could not be read.
	OutcomeDecodeFailed
	// OutcomeInternalError means evaluation failed or panicked.
	OutcomeInternalError
	// OutcomeDisabled means the gate is switched off by the environment.
	OutcomeDisabled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDecided:
		return "decided"
	case OutcomeDecodeFailed:
		return "decode_failed"
	case OutcomeInternalError:
		return "internal_error"
	case OutcomeDisabled:
		return "disabled"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is the evaluation result of one event.
type Result struct {
	Outcome  Outcome
	Decision policy.Decision
	// Event is the hook_event_name of the input, empty when it was not read.
	Event string
	Err   error
}

// Final returns the decision to report. Every outcome other than
// OutcomeDecided allows the action.
func (r Result) Final() policy.Decision {
	if r.Outcome != OutcomeDecided {
		return policy.Allowed()
	}
	return r.Decision
}

// Evaluator turns hook events into results.
type Evaluator struct {
	policy   *policy.Policy
	disabled bool
}

// NewEvaluator creates a new hook evaluator.
func NewEvaluator(p *policy.Policy, disabled bool) *Evaluator {
	return &Evaluator{policy: p, disabled: disabled}
}

// Run reads one event from r and evaluates it.
func (e *Evaluator) Run(r io.Reader) Result {
	if e.disabled {
		log.Info("disabled by environment, allowing")
		return Result{Outcome: OutcomeDisabled, Decision: policy.Allowed()}
	}

	in, err := ReadInput(r)
	if err != nil {
		log.Warn("%v", err)
		return Result{Outcome: OutcomeDecodeFailed, Decision: policy.Allowed(), Err: err}
	}
	return e.Evaluate(in)
}

// Evaluate decides one event. Panics are recovered into
// OutcomeInternalError.
func (e *Evaluator) Evaluate(in *Input) (res Result) {
	var event string
	if in != nil {
		event = in.HookEventName
	}
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic during evaluation: %v", r)
			log.Error("%v", err)
			res = Result{Outcome: OutcomeInternalError, Decision: policy.Allowed(), Event: event, Err: err}
		}
	}()

	if e.policy == nil {
		err := errors.New("no policy loaded")
		log.Error("%v", err)
		return Result{Outcome: OutcomeInternalError, Decision: policy.Allowed(), Event: event, Err: err}
	}

	action := in.Action()
	log.Debug("tool=%s path=%q command=%q", in.ToolName, action.Path, action.Command)

	d := e.policy.Evaluate(action)
	if !d.Allow {
		log.Info("deny %s: %d violation(s)", in.ToolName, len(d.Violations))
	}
	return Result{Outcome: OutcomeDecided, Decision: d, Event: event}
}
