package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/swarmdeck/swarmdeck/command"
	"github.com/swarmdeck/swarmdeck/executor"
	"github.com/swarmdeck/swarmdeck/internal/directive"
	"github.com/swarmdeck/swarmdeck/logging"
	"github.com/swarmdeck/swarmdeck/metrics"
	"github.com/swarmdeck/swarmdeck/model"
	"github.com/swarmdeck/swarmdeck/registry"
	"github.com/swarmdeck/swarmdeck/role"
)

const systemPrompt = `You are the Master Agent - the coordinator of an autonomous agent swarm.

Your role:
- Parse human requests to identify required tasks
- Spawn appropriate agents for each task
- Coordinate multi-agent workflows
- Report results back to humans

AVAILABLE AGENT TYPES:
1. web-searcher (Scout) - Searches DuckDuckGo and Wikipedia for information
2. researcher (Sage) - Analyzes and synthesizes information
3. code-writer (Forge) - Generates and explains code
4. analyst (Oracle) - Analyzes data and provides recommendations

When you receive a request:
1. Determine which agent type is best suited
2. Respond with a JSON action block if you need to spawn an agent or execute a task
3. If you can answer directly, do so

RESPONSE FORMAT:
For spawning agents or executing tasks, include a JSON block:
` + "```json\n" + `{"action": "spawn_and_task", "role": "web-searcher", "task": "search query here"}` + "\n```" + `

For direct responses (no agent needed):
Just respond normally with your analysis or answer.

Be concise and actionable.`

// delegationKeywords trigger the credential-free search heuristic.
var delegationKeywords = []string{"search", "find", "look up", "what is"}

// FeedMessage is one recent feed entry passed in for conversational context.
type FeedMessage struct {
	Sender    string `json:"sender"`
	AgentName string `json:"agentName,omitempty"`
	Text      string `json:"text"`
}

// SpawnedAgent identifies an agent the coordinator created during a turn so
// the caller can register it locally.
type SpawnedAgent struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Role role.ID `json:"role"`
}

// Reply is the outcome of one coordinator turn.
type Reply struct {
	// Text is the response shown in the feed.
	Text string
	// SpawnedAgent is set when the turn spawned a worker.
	SpawnedAgent *SpawnedAgent
	// TaskResult is set when the turn executed a delegated task.
	TaskResult *executor.TaskResult
}

// Options configure a Coordinator.
type Options struct {
	// Model powers delegation decisions. Nil selects the keyword heuristic.
	Model model.Client
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// Metrics defaults to an unregistered throwaway set.
	Metrics *metrics.Metrics
	// Temperature and MaxTokens for the coordination call.
	Temperature float64
	MaxTokens   int64
}

// Coordinator handles master-agent dialogue turns. Stateless apart from its
// collaborators; safe for concurrent use.
type Coordinator struct {
	catalog     *role.Catalog
	registry    *registry.Registry
	executor    *executor.Executor
	model       model.Client
	logger      logging.Logger
	metrics     *metrics.Metrics
	temperature float64
	maxTokens   int64
}

// New constructs a Coordinator.
func New(catalog *role.Catalog, reg *registry.Registry, exec *executor.Executor, optFns ...func(o *Options)) *Coordinator {
	opts := Options{
		Logger:      logging.NoOpLogger{},
		Temperature: 0.3,
		MaxTokens:   500,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(nil)
	}
	return &Coordinator{
		catalog:     catalog,
		registry:    reg,
		executor:    exec,
		model:       opts.Model,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

// Respond handles one human message. The tasks snapshot and recent feed
// messages provide conversational context for the model; agent context comes
// from the registry, which is authoritative.
func (c *Coordinator) Respond(ctx context.Context, message string, tasks []command.TaskSummary, recent []FeedMessage) Reply {
	if c.model == nil {
		return c.respondHeuristically(ctx, message)
	}

	content, err := c.model.Complete(ctx, model.Request{
		SystemPrompt: systemPrompt,
		UserContent:  c.buildContext(message, tasks, recent),
		MaxTokens:    c.maxTokens,
		Temperature:  c.temperature,
	})
	if errors.Is(err, model.ErrUnavailable) {
		c.metrics.ModelCallsTotal.WithLabelValues("coordinator", "mock").Inc()
		return c.respondHeuristically(ctx, message)
	}
	if err != nil {
		// Transport-level failure: acknowledge rather than surface it.
		c.metrics.ModelCallsTotal.WithLabelValues("coordinator", "error").Inc()
		c.logger.Warn("coordinator model call failed", "error", err)
		return Reply{Text: fmt.Sprintf("I'll help with: %q. Let me gather what I need and get back to you.", message)}
	}
	c.metrics.ModelCallsTotal.WithLabelValues("coordinator", "ok").Inc()

	d, ok := directive.ParseSpawn(content)
	if !ok {
		// No (well-formed) directive means a direct answer.
		return Reply{Text: content}
	}

	prose := directive.StripFenced(content)
	reply := c.delegate(ctx, role.ID(d.Role), d.Task)
	if prose != "" && reply.Text != "" {
		reply.Text = prose + "\n\n" + reply.Text
	} else if reply.Text == "" {
		reply.Text = prose
	}
	return reply
}

// respondHeuristically is the credential-free mode: spawn a web searcher for
// anything that smells like a lookup, otherwise describe what could be
// spawned.
func (c *Coordinator) respondHeuristically(ctx context.Context, message string) Reply {
	lower := strings.ToLower(message)
	for _, kw := range delegationKeywords {
		if strings.Contains(lower, kw) {
			return c.delegate(ctx, role.WebSearcher, message)
		}
	}

	var roleLines []string
	for _, r := range c.catalog.Spawnable() {
		roleLines = append(roleLines, fmt.Sprintf("- %s: %s", r.ID, r.Description))
	}
	return Reply{Text: fmt.Sprintf(
		"I understand your request: %q\n\nTo proceed, I can spawn one of these agents:\n%s\n\nTry asking me to \"search for X\" or \"look up Y\" to activate the web searcher.",
		message, strings.Join(roleLines, "\n"))}
}

// delegate spawns an agent of the named role and executes the task against
// it. An unknown role is handled like a malformed directive: no delegation,
// lenient reply.
func (c *Coordinator) delegate(ctx context.Context, id role.ID, task string) Reply {
	agent, err := c.registry.Spawn(id, "")
	if err != nil {
		c.logger.Warn("directive named unknown role", "role", id)
		return Reply{Text: fmt.Sprintf("I couldn't delegate that: %q is not a role I can spawn.", id)}
	}
	c.logger.Info("coordinator spawned agent", "agent", agent.Name, "role", id, "task", task)

	result := c.executor.Execute(ctx, agent.ID, task, func(msg string) {
		c.logger.Debug("task progress", "agent", agent.Name, "message", msg)
	})

	spawned := &SpawnedAgent{ID: agent.ID, Name: agent.Name, Role: agent.Role}
	if !result.Success {
		return Reply{
			Text:         fmt.Sprintf("Task failed: %s", result.Error),
			SpawnedAgent: spawned,
			TaskResult:   &result,
		}
	}

	sourceNote := "N/A"
	if len(result.Sources) > 0 {
		sourceNote = strings.Join(result.Sources, ", ")
	}
	return Reply{
		Text:         fmt.Sprintf("**%s Report:**\n\n%s\n\n*Sources: %s*", agent.Name, result.Output, sourceNote),
		SpawnedAgent: spawned,
		TaskResult:   &result,
	}
}

// buildContext renders the swarm state plus the human request for the model.
func (c *Coordinator) buildContext(message string, tasks []command.TaskSummary, recent []FeedMessage) string {
	var b strings.Builder

	b.WriteString("CURRENT AGENTS:\n")
	agents := c.registry.List()
	if len(agents) == 0 {
		b.WriteString("No agents currently active.\n")
	}
	for _, a := range agents {
		fmt.Fprintf(&b, "- %s (%s): %s", a.Name, a.Role, a.Status)
		if a.CurrentTask != "" {
			fmt.Fprintf(&b, " | Task: %s", a.CurrentTask)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nAVAILABLE AGENT TYPES:\n")
	for _, r := range c.catalog.Spawnable() {
		fmt.Fprintf(&b, "- %s: %s\n", r.ID, r.Description)
	}

	if len(tasks) > 0 {
		b.WriteString("\nOPEN TASKS:\n")
		for _, t := range tasks {
			fmt.Fprintf(&b, "- %s (%s)\n", t.Title, t.Status)
		}
	}

	if len(recent) > 0 {
		b.WriteString("\nRECENT MESSAGES:\n")
		for _, m := range recent {
			sender := m.Sender
			if m.AgentName != "" {
				sender = m.AgentName
			}
			fmt.Fprintf(&b, "- %s: %s\n", sender, m.Text)
		}
	}

	fmt.Fprintf(&b, "\nHUMAN REQUEST: %s\n\nAnalyze this request. If it requires an agent, include a JSON action block to spawn one. Otherwise, respond directly.", message)
	return b.String()
}
