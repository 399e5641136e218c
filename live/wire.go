package live

import (
	"github.com/agriguru/agriguru/catalog"
	"github.com/agriguru/agriguru/core"
)

// Messages exchanged with the live endpoint. Every frame is a JSON object
// with exactly one of the top-level keys set; the key identifies the kind.

// setupMessage is the first frame sent after the socket opens. It advertises
// the model configuration and the full operation catalog.
type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model             string            `json:"model"`
	GenerationConfig  generationConfig  `json:"generationConfig"`
	SystemInstruction systemInstruction `json:"systemInstruction"`
	Tools             []toolSet         `json:"tools"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type systemInstruction struct {
	Parts []contentPart `json:"parts"`
}

type toolSet struct {
	FunctionDeclarations []catalog.Declaration `json:"functionDeclarations"`
}

// serverFrame is the envelope for inbound frames. Only the keys the session
// core acts on are decoded; everything else passes through untouched.
type serverFrame struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ToolCall      *toolCallFrame `json:"toolCall,omitempty"`
}

type toolCallFrame struct {
	FunctionCalls []core.ToolCallRequest `json:"functionCalls"`
}

// toolResponseMessage carries the correlated batch of call outcomes back.
type toolResponseMessage struct {
	ToolResponse toolResponsePayload `json:"toolResponse"`
}

type toolResponsePayload struct {
	FunctionResponses []core.ToolCallResponse `json:"functionResponses"`
}

// clientContentMessage injects text into the conversation, used by Announce
// for proactive notifications.
type clientContentMessage struct {
	ClientContent clientContentPayload `json:"clientContent"`
}

type clientContentPayload struct {
	Turns        []contentTurn `json:"turns"`
	TurnComplete bool          `json:"turnComplete"`
}

type contentTurn struct {
	Role  string        `json:"role"`
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

func newSetupMessage(model, voice, modality, systemPrompt string) setupMessage {
	return setupMessage{Setup: setupPayload{
		Model: model,
		GenerationConfig: generationConfig{
			ResponseModalities: []string{modality},
			SpeechConfig: speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
		SystemInstruction: systemInstruction{
			Parts: []contentPart{{Text: systemPrompt}},
		},
		Tools: []toolSet{{FunctionDeclarations: catalog.All()}},
	}}
}

func newAnnouncement(text string) clientContentMessage {
	return clientContentMessage{ClientContent: clientContentPayload{
		Turns:        []contentTurn{{Role: "user", Parts: []contentPart{{Text: text}}}},
		TurnComplete: true,
	}}
}
