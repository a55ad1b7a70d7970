package coordinator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmdeck/swarmdeck/executor"
	"github.com/swarmdeck/swarmdeck/model"
	"github.com/swarmdeck/swarmdeck/registry"
	"github.com/swarmdeck/swarmdeck/role"
	"github.com/swarmdeck/swarmdeck/tool"
)

func newTestSwarm(t *testing.T, coordModel model.Client) (*Coordinator, *registry.Registry) {
	t.Helper()
	catalog := role.NewCatalog()
	reg := registry.New(catalog)
	tools := tool.NewRegistry(
		tool.Func{ToolName: "duckduckgo", Fn: func(_ context.Context, query string) tool.Result {
			return tool.Result{
				Findings: fmt.Sprintf("**Summary:** findings for %s", query),
				Sources:  []string{"https://example.com/ddg"},
			}
		}},
		tool.Func{ToolName: "wikipedia", Fn: func(_ context.Context, _ string) tool.Result {
			return tool.Result{Findings: "**Wikipedia Results:**", Sources: []string{"https://en.wikipedia.org/wiki/Test"}}
		}},
	)
	exec := executor.New(catalog, reg, tools)
	c := New(catalog, reg, exec, func(o *Options) { o.Model = coordModel })
	return c, reg
}

func TestRespond_NoModelKeywordSpawnsSearcher(t *testing.T) {
	c, reg := newTestSwarm(t, nil)

	reply := c.Respond(context.Background(), "search for quantum computing", nil, nil)

	require.NotNil(t, reply.SpawnedAgent)
	assert.Equal(t, role.WebSearcher, reply.SpawnedAgent.Role)
	assert.Contains(t, reply.Text, reply.SpawnedAgent.Name)

	require.NotNil(t, reply.TaskResult)
	assert.True(t, reply.TaskResult.Success)
	assert.Contains(t, reply.Text, "https://example.com/ddg")

	agent, ok := reg.Get(reply.SpawnedAgent.ID)
	require.True(t, ok)
	assert.Equal(t, registry.StatusIdle, agent.Status)
}

func TestRespond_NoModelKeywordVariants(t *testing.T) {
	for _, msg := range []string{
		"please LOOK UP the population of Brazil",
		"what is a transformer model",
		"Find me the latest Go release notes",
	} {
		c, _ := newTestSwarm(t, nil)
		reply := c.Respond(context.Background(), msg, nil, nil)
		require.NotNil(t, reply.SpawnedAgent, "message %q should delegate", msg)
		assert.Equal(t, role.WebSearcher, reply.SpawnedAgent.Role)
	}
}

func TestRespond_NoModelNonKeywordListsRoles(t *testing.T) {
	c, reg := newTestSwarm(t, nil)

	reply := c.Respond(context.Background(), "hello there", nil, nil)

	assert.Nil(t, reply.SpawnedAgent)
	assert.Nil(t, reply.TaskResult)
	assert.Contains(t, reply.Text, `"hello there"`)
	for _, r := range role.NewCatalog().Spawnable() {
		assert.Contains(t, reply.Text, string(r.ID))
	}
	assert.NotContains(t, reply.Text, string(role.Master))
	assert.Equal(t, 0, reg.Size(), "informational replies must not spawn")
}

func TestRespond_DirectiveSpawnsAndExecutes(t *testing.T) {
	client := model.NewMockClient()
	client.AddResponse("HUMAN REQUEST: research fusion energy",
		"On it.\n\n```json\n{\"action\": \"spawn_and_task\", \"role\": \"web-searcher\", \"task\": \"fusion energy progress\"}\n```")
	c, reg := newTestSwarm(t, client)

	reply := c.Respond(context.Background(), "research fusion energy", nil, nil)

	require.NotNil(t, reply.SpawnedAgent)
	assert.Equal(t, role.WebSearcher, reply.SpawnedAgent.Role)
	require.NotNil(t, reply.TaskResult)
	assert.True(t, reply.TaskResult.Success)
	assert.Contains(t, reply.Text, "On it.")
	assert.Contains(t, reply.Text, reply.SpawnedAgent.Name)
	assert.NotContains(t, reply.Text, "```json", "directive block must be stripped from the reply")

	agent, ok := reg.Get(reply.SpawnedAgent.ID)
	require.True(t, ok)
	assert.Equal(t, registry.StatusIdle, agent.Status)
}

func TestRespond_InlineDirectiveWithoutFence(t *testing.T) {
	client := model.NewMockClient()
	client.AddResponse("HUMAN REQUEST: dig into solar panels",
		`{"action": "spawn_and_task", "role": "web-searcher", "task": "solar panel efficiency"}`)
	c, _ := newTestSwarm(t, client)

	reply := c.Respond(context.Background(), "dig into solar panels", nil, nil)
	require.NotNil(t, reply.SpawnedAgent)
	require.NotNil(t, reply.TaskResult)
	assert.True(t, reply.TaskResult.Success)
	assert.Contains(t, reply.Text, reply.SpawnedAgent.Name)
}

func TestRespond_ProseOnlyReplyPassesThrough(t *testing.T) {
	client := model.NewMockClient()
	client.AddResponse("HUMAN REQUEST: what can you do",
		"I coordinate a swarm of specialized agents. Ask me to search, analyze, or write code.")
	c, reg := newTestSwarm(t, client)

	reply := c.Respond(context.Background(), "what can you do", nil, nil)

	assert.Nil(t, reply.SpawnedAgent)
	assert.Nil(t, reply.TaskResult)
	assert.Equal(t, "I coordinate a swarm of specialized agents. Ask me to search, analyze, or write code.", reply.Text)
	assert.Equal(t, 0, reg.Size())
}

func TestRespond_MalformedDirectiveTreatedAsProse(t *testing.T) {
	client := model.NewMockClient()
	client.AddResponse("HUMAN REQUEST: broken",
		"Sure: ```json\n{\"action\": \"spawn_and_task\", \"role\": \n```")
	c, reg := newTestSwarm(t, client)

	reply := c.Respond(context.Background(), "broken", nil, nil)
	assert.Nil(t, reply.SpawnedAgent)
	assert.Equal(t, 0, reg.Size())
	assert.NotEmpty(t, reply.Text)
}

func TestRespond_UnknownDirectiveRoleDoesNotSpawn(t *testing.T) {
	client := model.NewMockClient()
	client.AddResponse("HUMAN REQUEST: use the ghost",
		"```json\n{\"action\": \"spawn_and_task\", \"role\": \"ghost-writer\", \"task\": \"haunt\"}\n```")
	c, reg := newTestSwarm(t, client)

	reply := c.Respond(context.Background(), "use the ghost", nil, nil)
	assert.Nil(t, reply.SpawnedAgent)
	assert.Nil(t, reply.TaskResult)
	assert.Contains(t, reply.Text, "ghost-writer")
	assert.Equal(t, 0, reg.Size())
}

func TestRespond_UnavailableFallsBackToHeuristic(t *testing.T) {
	client := model.NewMockClient()
	client.FailWith(model.ErrUnavailable)
	c, _ := newTestSwarm(t, client)

	reply := c.Respond(context.Background(), "search for graphene batteries", nil, nil)
	require.NotNil(t, reply.SpawnedAgent)
	assert.Equal(t, role.WebSearcher, reply.SpawnedAgent.Role)
}

func TestRespond_TransportErrorAcknowledges(t *testing.T) {
	client := model.NewMockClient()
	client.FailWith(&model.TransportError{Err: fmt.Errorf("connection reset")})
	c, reg := newTestSwarm(t, client)

	reply := c.Respond(context.Background(), "search for graphene batteries", nil, nil)
	assert.Nil(t, reply.SpawnedAgent)
	assert.Contains(t, reply.Text, "graphene batteries")
	assert.NotContains(t, reply.Text, "connection reset", "provider errors stay out of the feed")
	assert.Equal(t, 0, reg.Size())
}

func TestRespond_ContextCarriesSwarmState(t *testing.T) {
	client := model.NewMockClient()
	c, reg := newTestSwarm(t, client)
	agent, err := reg.Spawn(role.Analyst, "Oracle-7")
	require.NoError(t, err)
	reg.Begin(agent.ID, "vendor comparison")

	// The default mock reply echoes the user content, which lets us assert on
	// the rendered context.
	reply := c.Respond(context.Background(), "status please", nil, []FeedMessage{
		{Sender: "human", Text: "earlier question"},
		{AgentName: "Oracle-7", Text: "earlier answer"},
	})
	assert.Contains(t, reply.Text, "Oracle-7 (analyst): active | Task: vendor comparison")
	assert.Contains(t, reply.Text, "AVAILABLE AGENT TYPES:")
	assert.Contains(t, reply.Text, "- human: earlier question")
	assert.Contains(t, reply.Text, "- Oracle-7: earlier answer")
	assert.Contains(t, reply.Text, "HUMAN REQUEST: status please")
}

func TestRespond_DelegatedFailureReportsTaskFailed(t *testing.T) {
	// Coordinator model answers with a directive; the executor shares the same
	// failing transport, so the delegated synthesis fails.
	catalog := role.NewCatalog()
	reg := registry.New(catalog)
	tools := tool.NewRegistry()

	execModel := model.NewMockClient()
	execModel.FailWith(&model.TransportError{Err: fmt.Errorf("timeout")})
	exec := executor.New(catalog, reg, tools, func(o *executor.Options) { o.Model = execModel })

	coordModel := model.NewMockClient()
	coordModel.AddResponse("HUMAN REQUEST:",
		"```json\n{\"action\": \"spawn_and_task\", \"role\": \"web-searcher\", \"task\": \"doomed\"}\n```")
	c := New(catalog, reg, exec, func(o *Options) { o.Model = coordModel })

	reply := c.Respond(context.Background(), "search for something", nil, nil)
	require.NotNil(t, reply.SpawnedAgent)
	require.NotNil(t, reply.TaskResult)
	assert.False(t, reply.TaskResult.Success)
	assert.Contains(t, reply.Text, "Task failed:")

	agent, ok := reg.Get(reply.SpawnedAgent.ID)
	require.True(t, ok)
	assert.Equal(t, registry.StatusStuck, agent.Status)
}
