package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"chatterm/model"
)

const (
	BedrockRegion = "us-east-1"
	BedrockModel  = "anthropic.claude-3-5-haiku-20241022-v1:0"
)

// bedrockConverseAPI is the subset of the Bedrock runtime client used here.
type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockProvider implements model.Completer via the AWS Bedrock Converse API.
// Credentials come from the default AWS credential chain.
type BedrockProvider struct {
	model  string
	client bedrockConverseAPI
}

func NewBedrockProvider(region, model string, httpClient *http.Client) (*BedrockProvider, error) {
	if region == "" {
		region = BedrockRegion
	}
	if model == "" {
		model = BedrockModel
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if httpClient != nil {
		opts = append(opts, awsconfig.WithHTTPClient(httpClient))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newBedrockProviderWithClient(model, bedrockruntime.NewFromConfig(awsCfg)), nil
}

func newBedrockProviderWithClient(model string, client bedrockConverseAPI) *BedrockProvider {
	return &BedrockProvider{
		model:  model,
		client: client,
	}
}

// Complete implements model.Completer.
func (p *BedrockProvider) Complete(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
	bedrockMessages, system := convertToBedrockMessages(messages)

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(p.model),
		Messages: bedrockMessages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32Tokens(tokenCap(params.MaxTokens))),
			Temperature: aws.Float32(float32(params.Temperature)),
		},
	}
	if len(system) > 0 {
		input.System = system
	}

	output, err := p.client.Converse(ctx, input)
	if err != nil {
		return "", mapBedrockError(err)
	}

	var text strings.Builder
	if msg, ok := output.Output.(*types.ConverseOutputMemberMessage); ok {
		for _, block := range msg.Value.Content {
			if t, ok := block.(*types.ContentBlockMemberText); ok {
				text.WriteString(t.Value)
			}
		}
	}
	if text.Len() == 0 {
		return "", emptyResponse(p.Name())
	}

	return text.String(), nil
}

func (p *BedrockProvider) Name() string {
	return "Bedrock"
}

func (p *BedrockProvider) Model() string {
	return p.model
}

// mapBedrockError keeps the service error code and message and drops the request
// metadata the SDK adds.
func mapBedrockError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("Bedrock request failed: %s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return fmt.Errorf("Bedrock request failed: %w", err)
}
