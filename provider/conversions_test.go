package provider

import (
	"math"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatterm/model"
	"chatterm/provider/testutil"
)

func TestConvertToOllamaMessages(t *testing.T) {
	messages := testutil.TestMessages()

	result := ConvertToOllamaMessages(messages)

	require.Len(t, result, len(messages))
	for i, msg := range messages {
		assert.Equal(t, string(msg.Role), result[i].Role)
		assert.Equal(t, msg.Content, result[i].Content)
	}
}

func TestConvertToOpenAIMessages_PreservesOrderAndRoles(t *testing.T) {
	result := ConvertToOpenAIMessages(testutil.TestMessages())

	require.Len(t, result, 4)
	assert.NotNil(t, result[0].OfSystem)
	assert.NotNil(t, result[1].OfUser)
	assert.NotNil(t, result[2].OfAssistant)
	assert.NotNil(t, result[3].OfUser)
}

func TestConvertToAnthropicMessages_SplitsSystem(t *testing.T) {
	msgs, system := convertToAnthropicMessages(testutil.TestMessages())

	require.Len(t, system, 1)
	assert.Equal(t, "You are a helpful assistant", system[0].Text)
	require.Len(t, msgs, 3)
	assert.EqualValues(t, "user", msgs[0].Role)
	assert.EqualValues(t, "assistant", msgs[1].Role)
	assert.EqualValues(t, "user", msgs[2].Role)
}

func TestConvertToAnthropicMessages_DropsEmptySystem(t *testing.T) {
	msgs, system := convertToAnthropicMessages([]model.Message{
		{Role: model.RoleSystem, Content: ""},
		{Role: model.RoleUser, Content: "Hello"},
	})

	assert.Empty(t, system)
	assert.Len(t, msgs, 1)
}

func TestConvertToGeminiConversation(t *testing.T) {
	conv := convertToGeminiConversation([]model.Message{
		{Role: model.RoleSystem, Content: "Be brief"},
		{Role: model.RoleUser, Content: "Hello"},
		{Role: model.RoleAssistant, Content: "Hi"},
		{Role: model.RoleUser, Content: "How are you?"},
	})

	assert.Equal(t, "Be brief", conv.system)
	assert.Equal(t, "How are you?", conv.last)
	require.Len(t, conv.history, 2)
	assert.Equal(t, "user", conv.history[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("Hello")}, conv.history[0].Parts)
	assert.Equal(t, "model", conv.history[1].Role)
}

func TestConvertToGeminiConversation_NoTurns(t *testing.T) {
	conv := convertToGeminiConversation([]model.Message{{Role: model.RoleSystem, Content: "x"}})
	assert.Empty(t, conv.last)
	assert.Empty(t, conv.history)
}

func TestConvertToBedrockMessages(t *testing.T) {
	msgs, system := convertToBedrockMessages(testutil.TestMessages())

	require.Len(t, system, 1)
	assert.Equal(t, &types.SystemContentBlockMemberText{Value: "You are a helpful assistant"}, system[0])
	require.Len(t, msgs, 3)
	assert.Equal(t, types.ConversationRoleUser, msgs[0].Role)
	assert.Equal(t, types.ConversationRoleAssistant, msgs[1].Role)
	assert.Equal(t, types.ConversationRoleUser, msgs[2].Role)
}

func TestTokenCap(t *testing.T) {
	assert.Equal(t, unlimitedTokenCap, tokenCap(nil))
	assert.Equal(t, unlimitedTokenCap, tokenCap(testutil.IntPtr(0)))
	assert.Equal(t, 128, tokenCap(testutil.IntPtr(128)))
}

func TestInt32Tokens(t *testing.T) {
	assert.Equal(t, int32(512), int32Tokens(512))
	assert.Equal(t, int32(math.MaxInt32), int32Tokens(math.MaxInt32))
	assert.Equal(t, int32(math.MaxInt32), int32Tokens(1<<40))
}
