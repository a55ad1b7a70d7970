package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/swarmdeck/swarmdeck/internal/directive"
	"github.com/swarmdeck/swarmdeck/logging"
	"github.com/swarmdeck/swarmdeck/metrics"
	"github.com/swarmdeck/swarmdeck/model"
)

// Action is a normalized control action.
type Action string

// The fixed action set. Anything the router cannot classify resolves to
// ActionUnknown.
const (
	ActionPauseAll    Action = "PAUSE_ALL"
	ActionPauseAgent  Action = "PAUSE_AGENT"
	ActionResumeAll   Action = "RESUME_ALL"
	ActionResumeAgent Action = "RESUME_AGENT"
	ActionKillAll     Action = "KILL_ALL"
	ActionKillAgent   Action = "KILL_AGENT"
	ActionReassign    Action = "REASSIGN"
	ActionStatus      Action = "STATUS"
	ActionHelp        Action = "HELP"
	ActionUnknown     Action = "UNKNOWN"
)

var validActions = map[Action]bool{
	ActionPauseAll:    true,
	ActionPauseAgent:  true,
	ActionResumeAll:   true,
	ActionResumeAgent: true,
	ActionKillAll:     true,
	ActionKillAgent:   true,
	ActionReassign:    true,
	ActionStatus:      true,
	ActionHelp:        true,
	ActionUnknown:     true,
}

// Valid reports whether a is a member of the action enum.
func (a Action) Valid() bool { return validActions[a] }

// CommandAction is the normalized result of interpreting one instruction.
type CommandAction struct {
	// Action classifies the instruction.
	Action Action `json:"action"`
	// Target optionally names an agent or task id the action applies to. It
	// is a weak reference: lookup, never ownership.
	Target string `json:"target,omitempty"`
	// Message is the human-readable confirmation shown in the feed.
	Message string `json:"message"`
}

// AgentSummary is the caller-provided snapshot of one agent, used as parsing
// context for the model fallback.
type AgentSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	CurrentTask string `json:"currentTask,omitempty"`
}

// TaskSummary is the caller-provided snapshot of one task.
type TaskSummary struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Status         string   `json:"status"`
	AssignedAgents []string `json:"assignedAgents,omitempty"`
}

// HelpMessage lists the supported commands; returned by /help and hinted at
// on unknown input.
const HelpMessage = "Commands: /pause, /resume, /kill, /reassign [task] to [agent], /status, /help"

// fastPath maps the literal slash commands to their fully determined
// results. Total: matching never fails and never calls the model.
var fastPath = map[string]CommandAction{
	"/pause":  {Action: ActionPauseAll, Message: "All agents paused."},
	"/resume": {Action: ActionResumeAll, Message: "All agents resumed."},
	"/kill":   {Action: ActionKillAll, Message: "All agents terminated."},
	"/status": {Action: ActionStatus, Message: "Status check requested."},
	"/help":   {Action: ActionHelp, Message: HelpMessage},
}

const parserSystemPrompt = `You are a command interpreter for an agent control system.
Available commands:
- /pause [agent] - Pause agent(s)
- /resume [agent] - Resume agent(s)
- /kill [agent] - Terminate agent(s)
- /reassign [task] to [agent] - Reassign a task
- /status - Get system status
- /help - List commands

Parse the user command and respond with JSON only:
{ "action": "ACTION_TYPE", "target": "agent_or_task_id_if_applicable", "message": "human readable response" }

Valid actions: PAUSE_ALL, PAUSE_AGENT, RESUME_ALL, RESUME_AGENT, KILL_ALL, KILL_AGENT, REASSIGN, STATUS, HELP, UNKNOWN`

// Options configure a Router.
type Options struct {
	// Model powers the fallback parser. Nil means fast path only.
	Model model.Client
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// Metrics defaults to an unregistered throwaway set.
	Metrics *metrics.Metrics
	// Temperature and MaxTokens for the parse call. Parsing wants near-greedy
	// decoding, hence the low default temperature.
	Temperature float64
	MaxTokens   int64
}

// Router classifies instruction strings. Stateless; safe for concurrent use.
type Router struct {
	model       model.Client
	logger      logging.Logger
	metrics     *metrics.Metrics
	temperature float64
	maxTokens   int64
}

// New constructs a Router.
func New(optFns ...func(o *Options)) *Router {
	opts := Options{
		Logger:      logging.NoOpLogger{},
		Temperature: 0.1,
		MaxTokens:   150,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(nil)
	}
	return &Router{
		model:       opts.Model,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

// Route classifies commandText. The agents and tasks snapshots give the
// fallback parser something to resolve names against; the fast path ignores
// them. Always returns a valid, displayable CommandAction.
func (r *Router) Route(ctx context.Context, commandText string, agents []AgentSummary, tasks []TaskSummary) CommandAction {
	if ca, ok := fastPath[strings.ToLower(strings.TrimSpace(commandText))]; ok {
		return ca
	}
	return r.routeWithModel(ctx, commandText, agents, tasks)
}

func (r *Router) routeWithModel(ctx context.Context, commandText string, agents []AgentSummary, tasks []TaskSummary) CommandAction {
	unknown := CommandAction{
		Action:  ActionUnknown,
		Message: fmt.Sprintf("Unknown command: %s. Try /help for available commands.", commandText),
	}
	if r.model == nil {
		return unknown
	}

	content, err := r.model.Complete(ctx, model.Request{
		SystemPrompt: parserSystemPrompt,
		UserContent:  buildParserContext(commandText, agents, tasks),
		MaxTokens:    r.maxTokens,
		Temperature:  r.temperature,
	})
	if errors.Is(err, model.ErrUnavailable) {
		r.metrics.ModelCallsTotal.WithLabelValues("command", "mock").Inc()
		return unknown
	}
	if err != nil {
		r.metrics.ModelCallsTotal.WithLabelValues("command", "error").Inc()
		r.logger.Warn("command parse failed", "command", commandText, "error", err)
		return CommandAction{
			Action:  ActionUnknown,
			Message: fmt.Sprintf("Failed to process command: %s", commandText),
		}
	}
	r.metrics.ModelCallsTotal.WithLabelValues("command", "ok").Inc()

	ca, ok := parseCommandAction(content)
	if !ok {
		// The model answered but not in the requested shape; surface its
		// prose rather than an opaque error.
		msg := strings.TrimSpace(content)
		if msg == "" {
			msg = unknown.Message
		}
		return CommandAction{Action: ActionUnknown, Message: msg}
	}
	return ca
}

// parseCommandAction extracts and validates a CommandAction from model text.
func parseCommandAction(content string) (CommandAction, bool) {
	raw, ok := directive.ExtractObject(content)
	if !ok {
		return CommandAction{}, false
	}
	var ca CommandAction
	if err := json.Unmarshal(raw, &ca); err != nil {
		return CommandAction{}, false
	}
	if !ca.Action.Valid() || ca.Action == "" {
		return CommandAction{}, false
	}
	if ca.Message == "" {
		ca.Message = "Command processed."
	}
	return ca, true
}

// buildParserContext renders the command plus the current swarm snapshot.
func buildParserContext(commandText string, agents []AgentSummary, tasks []TaskSummary) string {
	agentParts := make([]string, 0, len(agents))
	for _, a := range agents {
		agentParts = append(agentParts, fmt.Sprintf("%s (%s)", a.Name, a.ID))
	}
	taskParts := make([]string, 0, len(tasks))
	for _, t := range tasks {
		taskParts = append(taskParts, fmt.Sprintf("%s (%s)", t.Title, t.ID))
	}
	return fmt.Sprintf("Command: %s\n\nAvailable agents: %s\nAvailable tasks: %s",
		commandText, strings.Join(agentParts, ", "), strings.Join(taskParts, ", "))
}
