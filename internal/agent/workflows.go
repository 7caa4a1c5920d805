package agent

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// WorkflowResponse wraps the reply of a planning workflow.
type WorkflowResponse struct {
	Success    bool           `json:"success"`
	Data       map[string]any `json:"data"`
	Analysis   map[string]any `json:"analysis,omitempty"`
	Logistics  map[string]any `json:"logistics,omitempty"`
	WorkflowID string         `json:"workflow_id"`
}

// OptimizationGoals lists what an optimization run should favour.
type OptimizationGoals struct {
	Goals []string `json:"goals"`
}

// NegotiationTerms describes a vendor contract negotiation.
type NegotiationTerms struct {
	WeddingID string         `json:"weddingId"`
	Terms     map[string]any `json:"terms"`
	Budget    float64        `json:"budget"`
}

// VendorSearch are the criteria for an assisted vendor search.
type VendorSearch struct {
	Category    string         `json:"category"`
	Budget      float64        `json:"budget"`
	Location    string         `json:"location"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

// Coordination describes the event vendors must be coordinated for.
type Coordination struct {
	EventDate string         `json:"eventDate"`
	Timeline  map[string]any `json:"timeline,omitempty"`
}

// Optimize asks the agent to rework a wedding plan towards goals.
func (c *Client) Optimize(ctx context.Context, weddingID string, goals OptimizationGoals) (*WorkflowResponse, error) {
	prompt := "Optimize wedding for goals: " + strings.Join(goals.Goals, ", ")
	resp, err := c.Send(ctx, &Request{
		Prompt:    prompt,
		WeddingID: weddingID,
		Type:      TypeOptimization,
		Context:   map[string]any{"goals": goals.Goals},
	})
	if err != nil {
		return nil, fmt.Errorf("optimize wedding: %w", err)
	}
	return &WorkflowResponse{Success: true, Data: data(resp), Analysis: data(resp), WorkflowID: workflowID("opt")}, nil
}

// Negotiate asks the agent to negotiate a contract with a vendor.
func (c *Client) Negotiate(ctx context.Context, vendorID string, terms NegotiationTerms) (*WorkflowResponse, error) {
	prompt := "Negotiate vendor contract with budget " + formatAmount(terms.Budget)
	resp, err := c.Send(ctx, &Request{
		Prompt:    prompt,
		WeddingID: terms.WeddingID,
		Type:      TypeNegotiation,
		Context: map[string]any{
			"vendorId":  vendorID,
			"weddingId": terms.WeddingID,
			"terms":     terms.Terms,
			"budget":    terms.Budget,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("negotiate contract: %w", err)
	}
	return &WorkflowResponse{Success: true, Data: data(resp), Analysis: data(resp), WorkflowID: workflowID("neg")}, nil
}

// SearchVendors asks the agent for vendors matching criteria.
func (c *Client) SearchVendors(ctx context.Context, weddingID string, criteria VendorSearch) (*WorkflowResponse, error) {
	prompt := fmt.Sprintf("Search for %s vendors in %s with budget %s", criteria.Category, criteria.Location, formatAmount(criteria.Budget))
	resp, err := c.Send(ctx, &Request{
		Prompt:    prompt,
		WeddingID: weddingID,
		Type:      TypeVendorCoordination,
		Context: map[string]any{
			"category":    criteria.Category,
			"budget":      criteria.Budget,
			"location":    criteria.Location,
			"preferences": criteria.Preferences,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search vendors: %w", err)
	}
	return &WorkflowResponse{Success: true, Data: data(resp), Analysis: data(resp), WorkflowID: workflowID("search")}, nil
}

// CoordinateVendors asks the agent to line up vendors for an event date.
func (c *Client) CoordinateVendors(ctx context.Context, weddingID string, coord Coordination) (*WorkflowResponse, error) {
	resp, err := c.Send(ctx, &Request{
		Prompt:    "Coordinate vendors for event on " + coord.EventDate,
		WeddingID: weddingID,
		Type:      TypeVendorCoordination,
		Context:   map[string]any{"eventDate": coord.EventDate, "timeline": coord.Timeline},
	})
	if err != nil {
		return nil, fmt.Errorf("coordinate vendors: %w", err)
	}
	return &WorkflowResponse{Success: true, Data: data(resp), Logistics: data(resp), WorkflowID: workflowID("coord")}, nil
}

// StreamGuestInquiry streams the agent's help with a guest's question.
func (c *Client) StreamGuestInquiry(ctx context.Context, guestID, inquiry, urgency string) (io.ReadCloser, error) {
	if urgency == "" {
		urgency = "medium"
	}
	return c.Stream(ctx, &Request{
		Prompt:  "Guest inquiry: " + inquiry,
		Type:    TypeGuestInquiry,
		Context: map[string]any{"guestId": guestID, "urgency": urgency},
	})
}

// StreamVendorChat streams a message meant for a vendor conversation.
func (c *Client) StreamVendorChat(ctx context.Context, weddingID, message string) (io.ReadCloser, error) {
	return c.StreamChat(ctx, "Vendor communication: "+message, weddingID)
}

func data(resp *Response) map[string]any {
	if resp.Data == nil {
		return map[string]any{}
	}
	return resp.Data
}

func workflowID(prefix string) string {
	return prefix + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
