package toolkit

import (
	"context"

	"github.com/7ozzam/cohere-toolkit-with-openai/models"
	"github.com/7ozzam/cohere-toolkit-with-openai/models/openai"
)

// Deployment abstracts one upstream model provider. InvokeChatStream
// performs a single upstream call; looping over tool calls is the
// session's job, not the deployment's.
type Deployment interface {
	InvokeChatStream(ctx context.Context, req *models.CohereChatRequest, tctx *models.Context) (<-chan models.StreamedChatEvent, <-chan error)
	InvokeChat(ctx context.Context, req *models.CohereChatRequest, tctx *models.Context) (*models.NonStreamedChatResponse, error)
	ListModels(ctx context.Context) ([]string, error)
	IsAvailable() bool
}

// DefaultDeploymentName is used when a request names no deployment.
const DefaultDeploymentName = "openai"

// GetDeployment resolves a deployment by name. Only the
// OpenAI-compatible deployment exists today; unknown names fall back
// to it so a stale client setting cannot take chat down.
func GetDeployment(name string, cfg *Config) Deployment {
	if name != "" && name != DefaultDeploymentName && cfg.Logger != nil {
		cfg.Logger.Printf("Unknown deployment %q, using %s", name, DefaultDeploymentName)
	}
	return &openai.Deployment{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.EndpointURL,
		DefaultModel:  cfg.DefaultModel,
		TemplateName:  cfg.TemplateName,
		BuildTemplate: cfg.BuildTemplate,
		Logger:        cfg.Logger,
	}
}
