package domain

// RetrievalConfig controls how many chunks are retrieved and which are trusted.
type RetrievalConfig struct {
	TopK           int
	RelevanceFloor float64
}

// GenerationConfig holds answer generation settings, not exposed to clients.
type GenerationConfig struct {
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
}

// DefaultSystemPrompt keeps answers grounded in the retrieved context.
const DefaultSystemPrompt = `You are a helpful assistant that answers questions based on the provided document context.

Instructions:
1. Answer questions based ONLY on the provided context
2. If the context doesn't contain enough information, say so clearly
3. Be concise but comprehensive in your answers
4. Quote relevant parts of the context when appropriate
5. If asked about something not in the context, politely explain that you can only answer based on the uploaded document
6. Do not make up information that is not in the provided context`

// DefaultRetrievalConfig returns top 3 chunks with a 0.1 cosine floor.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{TopK: 3, RelevanceFloor: 0.1}
}

// DefaultGenerationConfig favors short, grounded answers.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		SystemPrompt: DefaultSystemPrompt,
		Temperature:  0.3,
		MaxTokens:    1000,
	}
}
