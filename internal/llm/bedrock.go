package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// BedrockRuntime is the subset of the Bedrock runtime client the provider
// needs. Wrap a real *bedrockruntime.Client with NewBedrockRuntime.
type BedrockRuntime interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (BedrockStream, error)
}

// BedrockStream is satisfied by *bedrockruntime.ConverseStreamOutput.
type BedrockStream interface {
	GetStream() *bedrockruntime.ConverseStreamEventStream
}

type runtimeClient struct {
	*bedrockruntime.Client
}

// NewBedrockRuntime adapts the AWS client to BedrockRuntime.
func NewBedrockRuntime(c *bedrockruntime.Client) BedrockRuntime {
	return runtimeClient{Client: c}
}

func (c runtimeClient) ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (BedrockStream, error) {
	out, err := c.Client.ConverseStream(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type bedrockProvider struct {
	runtime BedrockRuntime
	modelID string
}

// NewBedrockProvider streams from a Bedrock model through the Converse API.
func NewBedrockProvider(runtime BedrockRuntime, modelID string) Provider {
	return &bedrockProvider{runtime: runtime, modelID: modelID}
}

func (p *bedrockProvider) input(req *GenerateRequest) (string, []brtypes.SystemContentBlock, []brtypes.Message, error) {
	modelID := req.Model
	if modelID == "" {
		modelID = p.modelID
	}
	var system []brtypes.SystemContentBlock
	var msgs []brtypes.Message
	for _, m := range req.conversation() {
		if m.Role == "system" {
			system = append(system, &brtypes.SystemContentBlockMemberText{Value: m.Content})
			continue
		}
		role := brtypes.ConversationRoleUser
		if m.Role == "assistant" {
			role = brtypes.ConversationRoleAssistant
		}
		block := &brtypes.ContentBlockMemberText{Value: m.Content}
		// Converse rejects consecutive turns with the same role, e.g. a user
		// prompt whose reply failed followed by the next prompt.
		if n := len(msgs); n > 0 && msgs[n-1].Role == role {
			msgs[n-1].Content = append(msgs[n-1].Content, block)
			continue
		}
		msgs = append(msgs, brtypes.Message{Role: role, Content: []brtypes.ContentBlock{block}})
	}
	if len(msgs) == 0 {
		return "", nil, nil, errors.New("bedrock: request has no messages")
	}
	return modelID, system, msgs, nil
}

func (p *bedrockProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	modelID, system, msgs, err := p.input(req)
	if err != nil {
		return nil, err
	}
	out, err := p.runtime.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId:  aws.String(modelID),
		System:   system,
		Messages: msgs,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock converse: %w", err)
	}

	resp := &GenerateResponse{Model: modelID, Done: true}
	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return resp, nil
	}
	var content, thinking strings.Builder
	for _, block := range msg.Value.Content {
		switch b := block.(type) {
		case *brtypes.ContentBlockMemberText:
			content.WriteString(b.Value)
		case *brtypes.ContentBlockMemberReasoningContent:
			if r, ok := b.Value.(*brtypes.ReasoningContentBlockMemberReasoningText); ok && r.Value.Text != nil {
				thinking.WriteString(*r.Value.Text)
			}
		}
	}
	resp.Response = content.String()
	resp.Thinking = thinking.String()
	return resp, nil
}

func (p *bedrockProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)
	modelID, system, msgs, err := p.input(req)
	if err != nil {
		return err
	}
	out, err := p.runtime.ConverseStream(ctx, &bedrockruntime.ConverseStreamInput{
		ModelId:  aws.String(modelID),
		System:   system,
		Messages: msgs,
	})
	if err != nil {
		return fmt.Errorf("bedrock converse stream: %w", err)
	}
	stream := out.GetStream()
	defer stream.Close()

	send := func(r StreamResponse) error {
		select {
		case ch <- r:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	events := stream.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				if err := stream.Err(); err != nil {
					return fmt.Errorf("bedrock stream: %w", err)
				}
				return send(StreamResponse{Done: true})
			}
			switch ev := event.(type) {
			case *brtypes.ConverseStreamOutputMemberContentBlockDelta:
				switch delta := ev.Value.Delta.(type) {
				case *brtypes.ContentBlockDeltaMemberText:
					if err := send(StreamResponse{Content: delta.Value}); err != nil {
						return err
					}
				case *brtypes.ContentBlockDeltaMemberReasoningContent:
					if r, ok := delta.Value.(*brtypes.ReasoningContentBlockDeltaMemberText); ok {
						if err := send(StreamResponse{Thinking: r.Value}); err != nil {
							return err
						}
					}
				}
			case *brtypes.ConverseStreamOutputMemberMessageStop:
				return send(StreamResponse{Done: true})
			}
		}
	}
}
