package ability

import (
	"context"
	"fmt"
	"time"

	"github.com/presskeep/presskeep/internal/telemetry"
	"go.uber.org/zap"
)

// InvokerConfig holds the configuration parameters for creating an Invoker.
type InvokerConfig struct {
	Registry *Registry

	// Capabilities is the content store's role/capability system,
	// consulted by RequireCapability permission checks.
	Capabilities CapabilityChecker

	Logger  *zap.Logger
	Metrics telemetry.CustomMetrics

	// Timeout bounds a single execution. Zero means no deadline.
	Timeout time.Duration
}

// Invoker orchestrates a single ability invocation:
// lookup, input validation, authorization, execution, enveloping.
// It holds no per-call state; invocations are independent and may run
// concurrently.
type Invoker struct {
	registry     *Registry
	capabilities CapabilityChecker
	logger       *zap.Logger
	metrics      telemetry.CustomMetrics
	timeout      time.Duration
}

// NewInvoker creates an Invoker for the given registry.
func NewInvoker(cfg *InvokerConfig) (*Invoker, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("invoker requires a registry")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopCustomMetrics()
	}
	return &Invoker{
		registry:     cfg.Registry,
		capabilities: cfg.Capabilities,
		logger:       logger,
		metrics:      metrics,
		timeout:      cfg.Timeout,
	}, nil
}

type execOutcome struct {
	result *Result
	err    error
}

// Invoke runs the named ability with the given input on behalf of caller.
// It always returns a non-nil envelope: every failure mode, including an
// executor panic, is converted into a failure Result. The caller context is
// passed unchanged to both the permission check and the executor.
func (inv *Invoker) Invoke(ctx context.Context, name string, input map[string]any, caller *Caller) *Result {
	started := time.Now()
	outcome := telemetry.AbilityCallOutcomeError

	def, err := inv.registry.Lookup(name)
	if err != nil {
		inv.metrics.RecordAbilityCall(ctx, name, "", telemetry.AbilityCallOutcomeNotFound, time.Since(started))
		return FailCode(CodeAbilityNotFound, fmt.Sprintf("ability %s is not registered", name))
	}

	defer func() {
		inv.metrics.RecordAbilityCall(ctx, def.Name, def.Category, outcome, time.Since(started))
	}()

	if input == nil {
		input = map[string]any{}
	}

	if violations := def.InputSchema.Validate(input); len(violations) > 0 {
		outcome = telemetry.AbilityCallOutcomeInvalidInput
		inv.logger.Debug("ability input rejected",
			zap.String("ability", def.Name),
			zap.Int("violations", len(violations)),
		)
		return FailCode(CodeInvalidInput, JoinViolations(violations))
	}

	if decision := def.Permission.Check(caller, inv.capabilities); !decision.Allowed {
		outcome = telemetry.AbilityCallOutcomeUnauthorized
		return FailCode(CodeUnauthorized, decision.Reason)
	}

	result := inv.execute(ctx, def, input, caller)

	switch {
	case result.Success:
		outcome = telemetry.AbilityCallOutcomeSuccess
		inv.checkOutput(def, result)
	case result.Code == CodeTimeout:
		outcome = telemetry.AbilityCallOutcomeTimeout
	default:
		outcome = telemetry.AbilityCallOutcomeFailure
	}

	return result
}

// execute runs the executor with panic recovery and an optional deadline.
// The executor runs in its own goroutine so a blocking execution cannot
// outlive the invoker's deadline.
func (inv *Invoker) execute(ctx context.Context, def *Definition, input map[string]any, caller *Caller) *Result {
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	outcomeCh := make(chan execOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				inv.logger.Error("ability executor panicked",
					zap.String("ability", def.Name),
					zap.Any("panic", r),
				)
				outcomeCh <- execOutcome{err: fmt.Errorf("executor panicked: %v", r)}
			}
		}()
		result, err := def.Execute(ctx, input, caller)
		outcomeCh <- execOutcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return FailCode(CodeTimeout, fmt.Sprintf("ability %s timed out after %s", def.Name, inv.timeout))
		}
		return FailCode(CodeInternalError, "invocation was cancelled")
	case out := <-outcomeCh:
		if out.err != nil {
			inv.logger.Error("ability execution failed",
				zap.String("ability", def.Name),
				zap.Error(out.err),
			)
			return FailCode(CodeInternalError, out.err.Error())
		}
		if out.result == nil {
			return FailCode(CodeInternalError, fmt.Sprintf("ability %s returned no result", def.Name))
		}
		return out.result
	}
}

// checkOutput validates a successful envelope against the declared output
// schema. The check is advisory: mismatches are logged but never convert a
// successful execution into a failure, so executors may add fields without
// breaking callers.
func (inv *Invoker) checkOutput(def *Definition, result *Result) {
	if def.OutputSchema == nil {
		return
	}
	if violations := def.OutputSchema.Validate(result.AsMap()); len(violations) > 0 {
		inv.logger.Warn("ability output does not match its declared schema",
			zap.String("ability", def.Name),
			zap.String("violations", JoinViolations(violations)),
		)
	}
}
