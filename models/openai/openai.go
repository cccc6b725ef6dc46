package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
)

const (
	URLEnvVar           = "OPENAI_ENDPOINT_URL"
	APIKeyEnvVar        = "OPENAI_API_KEY"
	DefaultModelEnvVar  = "OPENAI_DEFAULT_MODEL"
	TemplateNameEnvVar  = "TOOLKIT_TEMPLATE_NAME"
	BuildTemplateEnvVar = "TOOLKIT_BUILD_TEMPLATE"

	chatCompletionsPath = "/chat/completions"
	completionsPath     = "/completions"
	modelsPath          = "/models"

	// streamOpenTimeout bounds how long the upstream may take to
	// start answering before the call is abandoned.
	streamOpenTimeout = 30 * time.Second
)

func init() {
	// Load .env file if it exists (not present in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// Deployment talks to any OpenAI-compatible endpoint. With
// BuildTemplate set, conversations are rendered through a prompt
// template and sent to /completions; otherwise they go to
// /chat/completions as structured messages.
type Deployment struct {
	APIKey        string
	BaseURL       string
	DefaultModel  string
	TemplateName  string
	BuildTemplate bool
	Client        *http.Client `json:"-"`
	Logger        *log.Logger  `json:"-"`
}

// NewDeploymentFromEnv configures a deployment from the environment.
// Template building defaults to on, since most local servers only
// speak the raw completions API well.
func NewDeploymentFromEnv() *Deployment {
	buildTemplate := true
	if v := os.Getenv(BuildTemplateEnvVar); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			buildTemplate = parsed
		}
	}
	return &Deployment{
		APIKey:        os.Getenv(APIKeyEnvVar),
		BaseURL:       os.Getenv(URLEnvVar),
		DefaultModel:  os.Getenv(DefaultModelEnvVar),
		TemplateName:  os.Getenv(TemplateNameEnvVar),
		BuildTemplate: buildTemplate,
		Logger:        log.Default(),
	}
}

// IsAvailable reports whether the deployment has an endpoint to talk
// to. An API key is not required: local servers usually run without
// one.
func (d *Deployment) IsAvailable() bool {
	return d.BaseURL != ""
}

func (d *Deployment) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}

func (d *Deployment) httpClient() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return &http.Client{Transport: &http.Transport{ResponseHeaderTimeout: streamOpenTimeout}}
}

func (d *Deployment) endpoint(path string) string {
	return strings.TrimRight(d.BaseURL, "/") + path
}

func (d *Deployment) setHeaders(req *http.Request) {
	if d.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")
}

// InvokeChatStream runs one upstream call and reconstructs its chunks
// into Cohere events. Events arrive on the first channel; a fatal
// error arrives on the second. Both channels close when the call is
// over.
func (d *Deployment) InvokeChatStream(ctx context.Context, req *models.CohereChatRequest, tctx *models.Context) (<-chan models.StreamedChatEvent, <-chan error) {
	eventChan := make(chan models.StreamedChatEvent)
	errChan := make(chan error, 1)

	go func() {
		defer close(eventChan)
		defer close(errChan)

		if req.Model == "" {
			req.Model = d.DefaultModel
		}
		if req.Message != "" {
			req.ChatHistory = append(req.ChatHistory, models.ChatMessage{Role: models.ChatRoleUser, Message: req.Message})
			req.Message = ""
		}

		var body []byte
		var path string
		var err error
		if d.BuildTemplate {
			request := CompletionRequestBody(req, d.TemplateName)
			request.Stream = true
			body, err = json.Marshal(request)
			path = completionsPath
		} else {
			request := ChatRequestBody(req)
			request.Stream = true
			body, err = json.Marshal(request)
			path = chatCompletionsPath
		}
		if err != nil {
			errChan <- fmt.Errorf("failed to marshal request body: %w", err)
			return
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint(path), bytes.NewReader(body))
		if err != nil {
			errChan <- fmt.Errorf("failed to create HTTP request: %w", err)
			return
		}
		d.setHeaders(httpReq)

		resp, err := d.httpClient().Do(httpReq)
		if err != nil {
			errChan <- fmt.Errorf("failed to open stream: %w", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			errChan <- readAPIError(resp)
			return
		}

		accumulator := NewAccumulator(uuid.NewString(), tctx.GetTraceID())
		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return
				}
				errChan <- fmt.Errorf("error reading stream: %w", err)
				return
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return
			}

			chunk, err := d.parseChunk([]byte(data))
			if err != nil {
				d.logger().Printf("Warning: failed to unmarshal stream chunk: %v, data: %s", err, data)
				continue
			}

			events := accumulator.ProcessChunk(chunk, req)
			events = append(events, accumulator.BridgeToolResults(req)...)
			for _, event := range events {
				if !accumulator.FirstRequestIsSent {
					accumulator.FirstRequestIsSent = true
					if !emit(ctx, eventChan, models.NewStreamStart(accumulator.GenerationID, req.ConversationID)) {
						return
					}
				}
				if !emit(ctx, eventChan, event) {
					return
				}
			}
		}
	}()

	return eventChan, errChan
}

// parseChunk maps one SSE payload onto the reconstructor's chunk
// shape, depending on which endpoint produced it.
func (d *Deployment) parseChunk(data []byte) (Chunk, error) {
	if d.BuildTemplate {
		var chunk CompletionStreamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			return Chunk{}, err
		}
		if len(chunk.Choices) > 0 {
			return Chunk{Text: chunk.Choices[0].Text, FinishReason: chunk.Choices[0].FinishReason}, nil
		}
		out := Chunk{Text: chunk.Content}
		if chunk.Stop {
			out.FinishReason = "stop"
		}
		return out, nil
	}

	var chunk ChatStreamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return Chunk{}, err
	}
	if len(chunk.Choices) == 0 {
		return Chunk{}, nil
	}
	choice := chunk.Choices[0]
	out := Chunk{FinishReason: choice.FinishReason}
	if choice.Delta != nil {
		out.Text = choice.Delta.Content
		out.ToolCallDeltas = choice.Delta.ToolCalls
		out.FunctionCall = choice.Delta.FunctionCall != nil
	}
	return out, nil
}

// InvokeChat runs a single non-streaming chat call and collapses the
// answer into a response. Tool-call detection still applies, so a
// model that writes its call as JSON is handled the same as in
// streaming mode.
func (d *Deployment) InvokeChat(ctx context.Context, req *models.CohereChatRequest, tctx *models.Context) (*models.NonStreamedChatResponse, error) {
	if req.Model == "" {
		req.Model = d.DefaultModel
	}
	if req.Message != "" {
		req.ChatHistory = append(req.ChatHistory, models.ChatMessage{Role: models.ChatRoleUser, Message: req.Message})
		req.Message = ""
	}

	request := ChatRequestBody(req)
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint(chatCompletionsPath), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	d.setHeaders(httpReq)

	resp, err := d.httpClient().Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var completion ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}

	text := completion.Choices[0].Message.Content
	response := &models.NonStreamedChatResponse{
		ResponseID:     tctx.GetTraceID(),
		GenerationID:   uuid.NewString(),
		ConversationID: req.ConversationID,
		Text:           text,
		FinishReason:   models.FinishReasonComplete,
	}

	history := NormalizeHistory(req.ChatHistory)
	if detection := DetectToolCall(text); detection.State == DetectionComplete {
		call := models.ToolCall{Name: detection.Name, Parameters: detection.Parameters}
		response.Text = ""
		response.ToolCalls = []models.ToolCall{call}
		history = append(history, models.ChatMessage{Role: models.ChatRoleChatbot, ToolCalls: []models.ToolCall{call}})
	} else {
		for _, native := range completion.Choices[0].Message.ToolCalls {
			parameters := map[string]interface{}{}
			if err := json.Unmarshal([]byte(native.Function.Arguments), &parameters); err != nil {
				d.logger().Printf("Warning: failed to unmarshal tool call arguments: %v", err)
			}
			response.ToolCalls = append(response.ToolCalls, models.ToolCall{Name: native.Function.Name, Parameters: parameters})
		}
		if len(response.ToolCalls) > 0 {
			history = append(history, models.ChatMessage{Role: models.ChatRoleChatbot, Message: text, ToolCalls: response.ToolCalls})
		} else {
			history = append(history, models.ChatMessage{Role: models.ChatRoleChatbot, Message: text})
		}
	}
	response.ChatHistory = history

	return response, nil
}

// ListModels asks the endpoint which models it serves, falling back
// to the configured default when the listing is empty or fails.
func (d *Deployment) ListModels(ctx context.Context) ([]string, error) {
	if !d.IsAvailable() {
		return []string{}, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint(modelsPath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	d.setHeaders(httpReq)

	resp, err := d.httpClient().Do(httpReq)
	if err != nil {
		if d.DefaultModel != "" {
			return []string{d.DefaultModel}, nil
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	var list ModelList
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			d.logger().Printf("Warning: failed to unmarshal model list: %v", err)
		}
	}

	names := make([]string, 0, len(list.Data))
	for _, model := range list.Data {
		names = append(names, model.ID)
	}
	if len(names) == 0 && d.DefaultModel != "" {
		names = append(names, d.DefaultModel)
	}
	return names, nil
}

// emit sends an event unless the caller has gone away.
func emit(ctx context.Context, out chan<- models.StreamedChatEvent, event models.StreamedChatEvent) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return fmt.Errorf("API error: %s (type: %s)", errResp.Error.Message, errResp.Error.Type)
	}
	return fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
}
