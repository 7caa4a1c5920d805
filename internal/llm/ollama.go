package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type ollamaProvider struct {
	client *http.Client
	url    string
	model  string
}

// NewOllamaProvider talks to an Ollama server's /api/chat endpoint. model is
// used whenever a request leaves Model empty.
func NewOllamaProvider(url, model string) Provider {
	return &ollamaProvider{
		client: &http.Client{},
		url:    url,
		model:  model,
	}
}

type ollamaChatChunk struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`
	Error   string  `json:"error,omitempty"`
}

func (p *ollamaProvider) body(req *GenerateRequest) ([]byte, error) {
	out := *req
	out.Messages = req.conversation()
	if out.Model == "" {
		out.Model = p.model
	}
	body, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}
	return body, nil
}

func (p *ollamaProvider) post(ctx context.Context, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return resp, nil
}

func (p *ollamaProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	req.Stream = false
	body, err := p.body(req)
	if err != nil {
		return nil, err
	}
	resp, err := p.post(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var chunk ollamaChatChunk
	if err := json.NewDecoder(resp.Body).Decode(&chunk); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	if chunk.Error != "" {
		return nil, fmt.Errorf("ollama: %s", chunk.Error)
	}
	return &GenerateResponse{
		Model:    chunk.Model,
		Response: chunk.Message.Content,
		Thinking: chunk.Message.Thinking,
		Done:     chunk.Done,
	}, nil
}

func (p *ollamaProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)
	req.Stream = true
	body, err := p.body(req)
	if err != nil {
		return err
	}
	resp, err := p.post(ctx, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Ollama streams one JSON object per line.
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var chunk ollamaChatChunk
		streamResp := StreamResponse{}
		if err := json.Unmarshal(line, &chunk); err != nil {
			streamResp.Error = "Failed to decode stream chunk"
		} else {
			streamResp = StreamResponse{
				Content:  chunk.Message.Content,
				Thinking: chunk.Message.Thinking,
				Done:     chunk.Done,
				Error:    chunk.Error,
			}
		}

		select {
		case ch <- streamResp:
		case <-ctx.Done():
			return ctx.Err()
		}
		if streamResp.Done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read ollama stream: %w", err)
	}
	return nil
}
