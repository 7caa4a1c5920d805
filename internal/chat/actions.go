package chat

import (
	"strconv"
	"strings"
)

// ActionType tags what a follow-up action does in the UI.
type ActionType string

const (
	ActionNavigate ActionType = "navigate"
	ActionCreate   ActionType = "create"
	ActionUpdate   ActionType = "update"
	ActionView     ActionType = "view"
)

// Action is a follow-up suggestion derived from a finished answer.
type Action struct {
	ID    string         `json:"id"`
	Label string         `json:"label"`
	Type  ActionType     `json:"type"`
	Data  map[string]any `json:"data"`
}

type actionRule struct {
	keywords []string
	label    string
	path     string
}

// The keyword table is shared with the web client; keep labels and paths stable.
var actionRules = []actionRule{
	{keywords: []string{"wedding", "create"}, label: "Create Wedding", path: "/wedding/create"},
	{keywords: []string{"dashboard", "overview"}, label: "View Dashboard", path: "/dashboard"},
	{keywords: []string{"vendor"}, label: "Manage Vendors", path: "/vendors"},
	{keywords: []string{"guest"}, label: "Manage Guests", path: "/guests"},
	{keywords: []string{"budget"}, label: "View Budget", path: "/budget"},
	{keywords: []string{"timeline"}, label: "View Timeline", path: "/timeline"},
}

// GenerateActions returns the navigation actions whose keywords appear in
// content, matched case-insensitively, in table order.
func GenerateActions(content string) []Action {
	lower := strings.ToLower(content)
	actions := []Action{}
	for i, rule := range actionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				actions = append(actions, Action{
					ID:    strconv.Itoa(i + 1),
					Label: rule.label,
					Type:  ActionNavigate,
					Data:  map[string]any{"path": rule.path},
				})
				break
			}
		}
	}
	return actions
}
