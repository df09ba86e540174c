// Package agent turns observation payloads into AI-generated content. Each
// agent identifier is bound to an output format by a static table; the prompt
// template comes from the prompt resolver and the text itself from a Backend.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
)

// Well-known weather agents.
const (
	AgentMarkdown = 1
	AgentHTML     = 2
)

// Format describes the output an agent is expected to produce.
type Format struct {
	// Name is the format named in the generation instruction, e.g.
	// "markdown" or "html".
	Name string
	// StripFences marks formats that must not keep a code-fence wrapper.
	StripFences bool
}

// formats maps agent identifiers to their configured output format. Agents
// outside this table receive the serialized input with no instruction prefix.
var formats = map[int]Format{
	AgentMarkdown: {Name: "markdown"},
	AgentHTML:     {Name: "html", StripFences: true},
}

// PromptResolver yields the system prompt template for an agent.
type PromptResolver interface {
	Resolve(ctx context.Context, agentID int) string
}

// Runner drives one generation call per invocation.
type Runner struct {
	prompts PromptResolver
	backend Backend
}

func NewRunner(prompts PromptResolver, backend Backend) *Runner {
	return &Runner{prompts: prompts, backend: backend}
}

// Run resolves the agent's prompt, builds the user turn from input, invokes
// the backend once and post-processes the response per the agent's format.
// input is either a plain string (passed verbatim) or a JSON-like tree.
func (r *Runner) Run(ctx context.Context, agentID int, input any) (string, error) {
	user, err := buildUserContent(agentID, input)
	if err != nil {
		return "", err
	}

	messages := []Message{
		{Role: RoleSystem, Content: r.prompts.Resolve(ctx, agentID)},
		{Role: RoleUser, Content: user},
	}

	raw, err := r.backend.Invoke(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("agent %d generation failed: %w", agentID, err)
	}

	if f, ok := formats[agentID]; ok && f.StripFences {
		return CleanFences(raw), nil
	}
	return raw, nil
}

func buildUserContent(agentID int, input any) (string, error) {
	if s, ok := input.(string); ok {
		return s, nil
	}

	serialized, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to serialize agent input: %w", err)
	}

	if f, ok := formats[agentID]; ok {
		return fmt.Sprintf("根据以下天气数据生成%s内容：\n%s", f.Name, serialized), nil
	}
	return string(serialized), nil
}
