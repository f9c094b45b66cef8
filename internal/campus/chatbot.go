package campus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/russross/blackfriday/v2"

	"orato/internal/logging"
	"orato/internal/services/llm"
)

// Replies used when the model gives nothing usable.
const (
	EmptyReply = "I apologize, but I'm having trouble processing your request right now. Please try again or rephrase your question."
	errorReply = "I'm experiencing technical difficulties. Error: %v. Please try again later."
)

const promptIntro = `You are Campus-AI, an intelligent campus assistant for B.Tech CSE students. Your motto is: "CREATE SOLUTIONS THAT MAKE LEARNING AND CAMPUS LIFE SMARTER. FROM CLASSROOM SCHEDULING TO STUDENT HELPDESK CHATBOTS, DIGITAL NOTES, AND SKILL SHOWCASE HUBS - THE OPPORTUNITIES ARE LIMITLESS."`

const promptGuidance = `Your capabilities include:
1. **Timetable Management**: Answer questions about class schedules, room locations, instructor details, and subject information
2. **Academic Support**: Help with course-related queries, assignment deadlines, and study planning
3. **Campus Navigation**: Provide information about building locations and room numbers
4. **General Campus Life**: Assist with campus facilities, events, and student services

Guidelines:
- Always be helpful, friendly, and professional
- Provide accurate information based on the timetable data
- If you don't have specific information, suggest where students can find it
- Keep responses concise but informative
- Use emojis sparingly and appropriately
- Focus on making campus life easier and more efficient

When students ask about:
- Class schedules: Provide day, time, subject, instructor, and room details
- Room locations: Explain building codes (UB-V, UB-VI, UB-III) and room numbers
- Subjects: Give course codes, instructor names, and schedule information
- General queries: Be helpful and suggest relevant campus resources

Remember: You're here to make campus life smarter and more efficient for students!`

// Completer is the text-completion surface of the LLM client.
type Completer interface {
	CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Chatbot answers student questions grounded in a Knowledge base.
type Chatbot struct {
	llm    Completer
	prompt string
	logger *slog.Logger
}

// NewChatbot renders the system prompt once from kb.
func NewChatbot(kb *Knowledge, client Completer, logger *slog.Logger) *Chatbot {
	return &Chatbot{
		llm:    client,
		prompt: SystemPrompt(kb),
		logger: logging.NewComponentLogger(logger, "chatbot"),
	}
}

// SystemPrompt embeds the timetable and every topic as indented JSON.
func SystemPrompt(kb *Knowledge) string {
	var b strings.Builder
	b.WriteString(promptIntro)
	b.WriteString("\n\nYou have access to the following timetable information:\n")
	b.WriteString(indentJSON(kb.Timetable))
	b.WriteString("\n\nYou also have campus knowledge to help with general queries:\n")
	for _, topic := range kb.Topics {
		fmt.Fprintf(&b, "- %s:\n%s\n\n", topic.Heading, indentJSON(topic.Data))
	}
	b.WriteString(promptGuidance)
	return b.String()
}

func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Prompt is the full single-turn prompt for message.
func (c *Chatbot) Prompt(message string) string {
	return fmt.Sprintf("%s\n\nStudent: %s\n\nCampus-AI:", c.prompt, message)
}

// Chat never fails: model problems become apology text.
func (c *Chatbot) Chat(ctx context.Context, message string) string {
	logger := logging.WithContext(ctx, c.logger)
	if c.llm == nil {
		return fmt.Sprintf(errorReply, "chat model not configured")
	}
	reply, err := c.llm.CompleteText(ctx, "", c.Prompt(message))
	switch {
	case errors.Is(err, llm.ErrEmptyContent):
		logger.Warn("chat model returned no text", logging.String(logging.FieldEventType, "chat_empty_reply"))
		return EmptyReply
	case err != nil:
		logging.WarnWithContext(logger, "chat completion failed", "chat_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm.api_key and network access"),
			logging.String(logging.FieldImpact, "student receives an apology message"),
		)
		return fmt.Sprintf(errorReply, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return EmptyReply
	}
	return reply
}

// RenderHTML converts a markdown reply to HTML for rich clients.
func RenderHTML(markdown string) string {
	return string(blackfriday.Run([]byte(markdown), blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak)))
}
