package engine

// AgentRequirement restricts which hosts a stage may run on. The zero value
// matches any host; a labeled requirement only matches hosts advertising
// that label.
type AgentRequirement struct {
	label string
}

func AnyAgent() AgentRequirement {
	return AgentRequirement{}
}

func RequireLabel(label string) AgentRequirement {
	return AgentRequirement{label: label}
}

func (r AgentRequirement) IsAny() bool {
	return r.label == ""
}

func (r AgentRequirement) Label() string {
	return r.label
}

func (r AgentRequirement) String() string {
	if r.IsAny() {
		return "any"
	}
	return r.label
}
