package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/swarmdeck/swarmdeck/logging"
	"github.com/swarmdeck/swarmdeck/metrics"
	"github.com/swarmdeck/swarmdeck/model"
	"github.com/swarmdeck/swarmdeck/registry"
	"github.com/swarmdeck/swarmdeck/role"
	"github.com/swarmdeck/swarmdeck/tool"
)

// Executor defaults applied to every model synthesis call, independent of
// the agent's role.
const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
)

// MockModeNotice is appended to every report synthesized without a model
// credential so callers (and humans) can tell mock output from model output.
const MockModeNotice = "*Note: mock mode in use. Configure a model credential for AI-powered analysis.*"

// errAgentNotFound is the user-facing error text for an unresolvable agent id.
const errAgentNotFound = "Agent not found"

// TaskResult is the immutable outcome of one execution.
type TaskResult struct {
	// Success reports whether the task completed.
	Success bool
	// Output is the synthesized report (or the failure notice).
	Output string
	// Sources lists citation URLs, de-duplicated preserving first-seen order.
	Sources []string
	// ToolsUsed lists the tool identifiers actually invoked, in order.
	ToolsUsed []string
	// Error carries the human-readable failure text when Success is false.
	Error string
	// Duration is the end-to-end execution time.
	Duration time.Duration
}

// ProgressFunc receives human-readable progress notices at pipeline
// checkpoints. It never affects control flow; panics are swallowed.
type ProgressFunc func(message string)

// Options configure an Executor.
type Options struct {
	// Model synthesizes the final report. Nil means mock mode.
	Model model.Client
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// Metrics defaults to an unregistered throwaway set.
	Metrics *metrics.Metrics
	// Temperature and MaxTokens override the synthesis defaults.
	Temperature float64
	MaxTokens   int64
}

// Executor runs tasks against registered agents. Stateless apart from its
// collaborators; safe for concurrent use across distinct agents.
type Executor struct {
	catalog     *role.Catalog
	registry    *registry.Registry
	tools       *tool.Registry
	model       model.Client
	logger      logging.Logger
	metrics     *metrics.Metrics
	temperature float64
	maxTokens   int64
}

// New constructs an Executor over the given catalog, registry and tool table.
func New(catalog *role.Catalog, reg *registry.Registry, tools *tool.Registry, optFns ...func(o *Options)) *Executor {
	opts := Options{
		Logger:      logging.NoOpLogger{},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(nil)
	}
	return &Executor{
		catalog:     catalog,
		registry:    reg,
		tools:       tools,
		model:       opts.Model,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

// Execute runs task against the agent identified by agentID and returns a
// structured result. It never returns an error: every failure mode surfaces
// as Success=false with human-readable Error text.
func (e *Executor) Execute(ctx context.Context, agentID, task string, onProgress ProgressFunc) TaskResult {
	start := time.Now()

	agent, ok := e.registry.Get(agentID)
	if !ok {
		return TaskResult{Success: false, Output: errAgentNotFound, Error: errAgentNotFound, Duration: time.Since(start)}
	}
	if strings.TrimSpace(task) == "" {
		return TaskResult{Success: false, Output: "Task is empty", Error: "Task is empty", Duration: time.Since(start)}
	}

	rc, err := e.catalog.Get(agent.Role)
	if err != nil {
		return TaskResult{Success: false, Output: err.Error(), Error: err.Error(), Duration: time.Since(start)}
	}

	e.registry.Begin(agentID, task)
	notify(onProgress, fmt.Sprintf("%s starting task: %s", agent.Name, task))
	e.logger.Info("task started", "agent", agent.Name, "role", agent.Role, "task", task)

	var (
		contextBuf strings.Builder
		sources    []string
		toolsUsed  []string
	)

	for _, toolID := range rc.Tools {
		adapter, ok := e.tools.Get(toolID)
		if ok {
			notify(onProgress, fmt.Sprintf("%s consulting %s...", agent.Name, toolID))
			res := adapter.Lookup(ctx, task)
			outcome := "ok"
			if res.Empty() {
				outcome = "empty"
			}
			e.metrics.ToolCallsTotal.WithLabelValues(toolID, outcome).Inc()
			fmt.Fprintf(&contextBuf, "\n\n--- %s results ---\n%s", toolID, res.Findings)
			sources = append(sources, res.Sources...)
			toolsUsed = append(toolsUsed, toolID)
		}
	}

	notify(onProgress, fmt.Sprintf("%s analyzing results...", agent.Name))

	output, err := e.synthesize(ctx, rc, agent.Name, task, contextBuf.String())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	e.metrics.TasksTotal.WithLabelValues(string(agent.Role), outcome).Inc()
	e.metrics.TaskDuration.WithLabelValues(string(agent.Role), outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		// The agent stays stuck with CurrentTask intact for diagnosis. A
		// concurrent kill wins: Fail is a no-op on offline agents.
		e.registry.Fail(agentID)
		e.logger.Error("task failed", "agent", agent.Name, "task", task, "error", err)
		return TaskResult{
			Success:   false,
			Output:    fmt.Sprintf("Task failed: %v", err),
			Sources:   dedupe(sources),
			ToolsUsed: toolsUsed,
			Error:     err.Error(),
			Duration:  time.Since(start),
		}
	}

	e.registry.Complete(agentID)
	notify(onProgress, fmt.Sprintf("%s completed task", agent.Name))
	e.logger.Info("task completed", "agent", agent.Name, "duration", time.Since(start))

	return TaskResult{
		Success:   true,
		Output:    output,
		Sources:   dedupe(sources),
		ToolsUsed: toolsUsed,
		Duration:  time.Since(start),
	}
}

// synthesize produces the report text: model completion when a credential is
// configured, deterministic mock report otherwise. Transport and malformed
// responses are fatal for the task and are not retried here.
func (e *Executor) synthesize(ctx context.Context, rc role.Role, agentName, task, toolContext string) (string, error) {
	if e.model == nil {
		e.metrics.ModelCallsTotal.WithLabelValues("executor", "mock").Inc()
		return mockReport(agentName, task, toolContext), nil
	}

	out, err := e.model.Complete(ctx, model.Request{
		SystemPrompt: rc.SystemPrompt,
		UserContent: fmt.Sprintf(
			"TASK: %s\n\nTOOL RESULTS:\n%s\n\nBased on the above information, provide a comprehensive response to the task. Be concise but thorough. Cite sources where relevant.",
			task, toolContext),
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if errors.Is(err, model.ErrUnavailable) {
		e.metrics.ModelCallsTotal.WithLabelValues("executor", "mock").Inc()
		return mockReport(agentName, task, toolContext), nil
	}
	if err != nil {
		e.metrics.ModelCallsTotal.WithLabelValues("executor", "error").Inc()
		return "", err
	}
	e.metrics.ModelCallsTotal.WithLabelValues("executor", "ok").Inc()
	return out, nil
}

// mockReport assembles the deterministic credential-free report.
func mockReport(agentName, task, toolContext string) string {
	return fmt.Sprintf("**%s Report**\n\nTask: %s\n%s\n\n%s", agentName, task, toolContext, MockModeNotice)
}

// dedupe removes duplicate URLs preserving first-seen order.
func dedupe(sources []string) []string {
	if len(sources) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// notify invokes the progress sink, discarding panics: progress reporting
// must never affect task control flow.
func notify(fn ProgressFunc, msg string) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(msg)
}
