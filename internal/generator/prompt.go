package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/rkahn/voicebot/internal/config"
	"github.com/rkahn/voicebot/internal/timeslot"
)

const postUserPrompt = "Now, generate today's post following this structure."

// buildPostSystem composes the persona description with the directive for
// the current time slot.
func buildPostSystem(persona config.PersonaConfig, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(persona.SystemPrompt)
	sb.WriteString("\n\nTailor the post to the following time slot: ")
	sb.WriteString(timeslot.Directive(now))
	return sb.String()
}

// buildReplyUser frames a discovered post for reply generation.
func buildReplyUser(candidateText string) string {
	return fmt.Sprintf("Post: %s\n\nReply:", candidateText)
}
