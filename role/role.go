package role

import "fmt"

// ID identifies one of the predefined swarm roles.
type ID string

// The five built-in roles. Master is the coordinator and cannot be spawned
// as a worker.
const (
	WebSearcher ID = "web-searcher"
	Researcher  ID = "researcher"
	CodeWriter  ID = "code-writer"
	Analyst     ID = "analyst"
	Master      ID = "master"
)

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// ErrNotFound is returned when a role id does not match any defined role.
var ErrNotFound = fmt.Errorf("role not found")

// Role is an immutable record describing an agent template: display identity,
// capability description, the system prompt fed to the model and the ordered
// set of tool identifiers the role may invoke. Accent is cosmetic (UI hint)
// and carries no behavior.
type Role struct {
	ID           ID
	DisplayName  string
	Description  string
	SystemPrompt string
	Tools        []string
	Accent       string
}
