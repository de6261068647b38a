package chatControllers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "phi3"

	fallbackAnswer = "Sorry, I can't answer right now. Please try again later."
	offTopicAnswer = "Sorry, I can only help with questions about DeliciousBakery: our products, orders, payments and delivery."

	maxAnswerLength = 500
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

type ChatInput struct {
	Message string `json:"message" binding:"required"`
}

type ollamaRequest struct {
	Model         string  `json:"model"`
	Prompt        string  `json:"prompt"`
	Stream        bool    `json:"stream"`
	NumPredict    int     `json:"num_predict"`
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	NumCtx        int     `json:"num_ctx"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func buildPrompt(knowledge, userMessage string) string {
	var b strings.Builder
	b.WriteString("You are the assistant for DeliciousBakery, an online pastry shop.\n\n")
	b.WriteString("ONLY answer questions about DeliciousBakery using the knowledge below.\n\n")
	b.WriteString("KNOWLEDGE:\n")
	b.WriteString(knowledge)
	b.WriteString("\n\nRULES:\n")
	b.WriteString("1. Only discuss DeliciousBakery products, orders, payments, delivery, carts and accounts.\n")
	b.WriteString("2. If the question is unrelated, answer exactly: \"" + offTopicAnswer + "\"\n")
	b.WriteString("3. Never invent information that is not in the knowledge above.\n")
	b.WriteString("4. Keep answers short and friendly, at most 3-4 sentences.\n\n")
	b.WriteString("User question: " + userMessage + "\n\nAnswer:")
	return b.String()
}

func askOllama(prompt string) (string, error) {
	baseURL := os.Getenv("OLLAMA_URL")
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = defaultOllamaModel
	}

	body, err := json.Marshal(ollamaRequest{
		Model:         model,
		Prompt:        prompt,
		Stream:        false,
		NumPredict:    300,
		Temperature:   0.3,
		TopP:          0.9,
		NumCtx:        2048,
		RepeatPenalty: 1.1,
	})
	if err != nil {
		return "", err
	}

	resp, err := httpClient.Post(baseURL+"/api/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Response), nil
}

// sanitizeAnswer strips prompt-echo prefixes, caps the length and replaces an
// empty answer with the fallback.
func sanitizeAnswer(answer string) string {
	if idx := strings.Index(answer, "Answer:"); idx >= 0 {
		answer = strings.TrimSpace(answer[idx+len("Answer:"):])
	}
	if answer == "" {
		return fallbackAnswer
	}
	if len(answer) > maxAnswerLength {
		answer = answer[:maxAnswerLength-3] + "..."
	}
	return answer
}

// POST /ai/chat — public, no auth required.
func ChatHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ChatInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a question."})
			return
		}
		message := strings.TrimSpace(input.Message)
		if message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a question."})
			return
		}

		prompt := buildPrompt(knowledge.get(db), message)
		answer, err := askOllama(prompt)
		if err != nil {
			log.Printf("ollama request failed: %v", err)
			c.JSON(http.StatusOK, gin.H{"message": fallbackAnswer})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": sanitizeAnswer(answer)})
	}
}
