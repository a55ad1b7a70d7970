// Package coordinator implements the master-agent dialogue handler: given a
// free-form human message plus a snapshot of the swarm, it either answers
// directly or spawns a worker agent and delegates a task to it.
//
// Two operating modes:
//   - Credential-free: a keyword heuristic decides whether to spawn a web
//     searcher; otherwise the reply lists the spawnable roles.
//   - Credential-present: the model is asked to reply with optional embedded
//     spawn directives; a well-formed directive triggers spawn-and-execute,
//     anything malformed is treated as "no delegation requested".
//
// Transport failures of the model call degrade to a generic acknowledgement;
// the handler never propagates an opaque error to the caller.
package coordinator
