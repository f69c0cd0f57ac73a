package api

import "gopkg.in/yaml.v3"

// WorkflowDefinition is the workflow graph as submitted by clients, either
// as the JSON body of the create/update endpoints or as a YAML file applied
// through the CLI. Node IDs are client-chosen so connections can reference
// them; the server keeps them as-is.
type WorkflowDefinition struct {
	Title       string          `json:"title" yaml:"title"`
	Enabled     *bool           `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Nodes       []NodeDef       `json:"nodes" yaml:"nodes"`
	Connections []ConnectionDef `json:"connections" yaml:"connections"`
}

type NodeDef struct {
	ID             string         `json:"id" yaml:"id"`
	Kind           string         `json:"kind" yaml:"kind"`
	TriggerType    string         `json:"triggerType,omitempty" yaml:"trigger_type,omitempty"`
	ActionPlatform string         `json:"actionPlatform,omitempty" yaml:"action_platform,omitempty"`
	Config         map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

type ConnectionDef struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

func ParseWorkflowYAML(content []byte) (*WorkflowDefinition, error) {
	var def WorkflowDefinition
	if err := yaml.Unmarshal(content, &def); err != nil {
		return nil, err
	}
	return &def, nil
}
