package registry

import "github.com/aretw0/minions/pkg/core"

func f64(v float64) *float64 { return &v }

// Builtins returns the system types shipped with every registry, in
// registration order. Each call returns fresh values.
func Builtins() []core.MinionType {
	return []core.MinionType{
		{
			ID:          "builtin-note",
			Name:        "Note",
			Slug:        "note",
			Description: "A simple text note.",
			Icon:        "📝",
			IsSystem:    true,
			Schema: []core.FieldDefinition{
				{Name: "content", Type: core.FieldTextarea, Label: "Content", Required: true},
			},
		},
		{
			ID:          "builtin-link",
			Name:        "Link",
			Slug:        "link",
			Description: "A web link or bookmark.",
			Icon:        "🔗",
			IsSystem:    true,
			Schema: []core.FieldDefinition{
				{Name: "url", Type: core.FieldURL, Label: "URL", Required: true},
				{Name: "description", Type: core.FieldTextarea, Label: "Description"},
			},
		},
		{
			ID:          "builtin-file",
			Name:        "File",
			Slug:        "file",
			Description: "A file attachment reference.",
			Icon:        "📎",
			IsSystem:    true,
			Schema: []core.FieldDefinition{
				{Name: "filename", Type: core.FieldString, Label: "Filename", Required: true},
				{Name: "fileUrl", Type: core.FieldURL, Label: "File URL", Required: true},
				{Name: "fileSize", Type: core.FieldNumber, Label: "File Size (bytes)"},
				{Name: "mimeType", Type: core.FieldString, Label: "MIME Type"},
			},
		},
		{
			ID:          "builtin-contact",
			Name:        "Contact",
			Slug:        "contact",
			Description: "A person or entity contact record.",
			Icon:        "👤",
			IsSystem:    true,
			Schema: []core.FieldDefinition{
				{Name: "name", Type: core.FieldString, Label: "Name", Required: true},
				{Name: "email", Type: core.FieldEmail, Label: "Email"},
				{Name: "phone", Type: core.FieldString, Label: "Phone"},
				{Name: "company", Type: core.FieldString, Label: "Company"},
				{Name: "notes", Type: core.FieldTextarea, Label: "Notes"},
			},
		},
		{
			ID:          "builtin-agent",
			Name:        "Agent",
			Slug:        "agent",
			Description: "An AI agent definition.",
			Icon:        "🤖",
			IsSystem:    true,
			Schema: []core.FieldDefinition{
				{Name: "role", Type: core.FieldString, Label: "Role"},
				{Name: "model", Type: core.FieldString, Label: "Model"},
				{Name: "systemPrompt", Type: core.FieldTextarea, Label: "System Prompt"},
				{Name: "temperature", Type: core.FieldNumber, Label: "Temperature", Validation: &core.FieldValidation{Min: f64(0), Max: f64(2)}},
				{Name: "maxTokens", Type: core.FieldNumber, Label: "Max Tokens"},
				{Name: "tools", Type: core.FieldTags, Label: "Tools"},
			},
		},
		{
			ID:               "builtin-team",
			Name:             "Team",
			Slug:             "team",
			Description:      "A group of agents working together.",
			Icon:             "👥",
			IsSystem:         true,
			IsOrganizational: true,
			Schema: []core.FieldDefinition{
				{Name: "members", Type: core.FieldTags, Label: "Members"},
				{Name: "strategy", Type: core.FieldSelect, Label: "Strategy", Options: []string{"round_robin", "parallel", "sequential"}},
				{Name: "maxConcurrency", Type: core.FieldNumber, Label: "Max Concurrency"},
			},
		},
		{
			ID:          "builtin-thought",
			Name:        "Thought",
			Slug:        "thought",
			Description: "A recorded thought, observation, or memory.",
			Icon:        "💭",
			IsSystem:    true,
			Schema: []core.FieldDefinition{
				{Name: "content", Type: core.FieldTextarea, Label: "Content", Required: true},
				{Name: "confidence", Type: core.FieldNumber, Label: "Confidence", Validation: &core.FieldValidation{Min: f64(0), Max: f64(1)}},
				{Name: "source", Type: core.FieldString, Label: "Source"},
			},
		},
		{
			ID:          "builtin-prompt-template",
			Name:        "Prompt Template",
			Slug:        "prompt-template",
			Description: "A reusable prompt template with variables.",
			Icon:        "📋",
			IsSystem:    true,
			Schema: []core.FieldDefinition{
				{Name: "template", Type: core.FieldTextarea, Label: "Template", Required: true},
				{Name: "variables", Type: core.FieldTags, Label: "Variables"},
				{Name: "outputFormat", Type: core.FieldSelect, Label: "Output Format", Options: []string{"text", "json", "markdown"}},
			},
		},
		{
			ID:          "builtin-test-case",
			Name:        "Test Case",
			Slug:        "test-case",
			Description: "A test case for evaluating agent behavior.",
			Icon:        "🧪",
			IsSystem:    true,
			Schema: []core.FieldDefinition{
				{Name: "input", Type: core.FieldJSON, Label: "Input", Required: true},
				{Name: "expectedOutput", Type: core.FieldJSON, Label: "Expected Output"},
				{Name: "assertions", Type: core.FieldJSON, Label: "Assertions"},
				{Name: "timeout", Type: core.FieldNumber, Label: "Timeout (ms)"},
			},
		},
		{
			ID:          "builtin-task",
			Name:        "Task",
			Slug:        "task",
			Description: "A unit of work to be executed.",
			Icon:        "⚡",
			IsSystem:    true,
			Schema: []core.FieldDefinition{
				{Name: "input", Type: core.FieldJSON, Label: "Input"},
				{Name: "output", Type: core.FieldJSON, Label: "Output"},
				{Name: "executionStatus", Type: core.FieldSelect, Label: "Execution Status", Options: []string{"pending", "running", "completed", "failed", "cancelled"}},
				{Name: "startedAt", Type: core.FieldDate, Label: "Started At"},
				{Name: "completedAt", Type: core.FieldDate, Label: "Completed At"},
				{Name: "error", Type: core.FieldTextarea, Label: "Error"},
			},
		},
	}
}
