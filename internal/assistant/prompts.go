package assistant

import (
	"fmt"
	"strings"

	"github.com/nova-maldives/the-hub/backend/internal/checklist"
	"github.com/nova-maldives/the-hub/backend/internal/domain"
)

func handoverPrompt(resortName string, shift *domain.ShiftData) string {
	pending := make([]string, 0, len(shift.Tasks))
	for _, t := range shift.Tasks {
		if !t.IsCompleted {
			pending = append(pending, fmt.Sprintf("- %s (%s)", t.Label, t.Category))
		}
	}

	notes := shift.Notes
	if notes == "" {
		notes = "No specific agent notes provided."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI assistant for a luxury resort in the Maldives called %q.\n", resortName)
	b.WriteString("Generate a professional, concise and clear Shift Handover Report for the next GSA (Guest Service Agent).\n\n")
	b.WriteString("Shift Details:\n")
	fmt.Fprintf(&b, "- Shift Type: %s\n", shift.Type)
	fmt.Fprintf(&b, "- Date: %s\n", shift.Date)
	fmt.Fprintf(&b, "- Agent: %s\n", shift.AgentName)
	fmt.Fprintf(&b, "- Occupancy: %d%%\n", shift.Occupancy)
	fmt.Fprintf(&b, "- Task Completion: %d/%d\n\n", checklist.CompletedCount(shift.Tasks), len(shift.Tasks))
	b.WriteString("Pending Tasks (High Priority to Mention):\n")
	b.WriteString(strings.Join(pending, "\n"))
	b.WriteString("\n\nAgent's Log/Notes:\n")
	b.WriteString(notes)
	b.WriteString("\n\nPlease format the report with these sections:\n")
	b.WriteString("1. **Shift Overview**: Brief summary of the shift status.\n")
	b.WriteString("2. **Pending Actions**: Bullet points of what the next shift MUST do immediately.\n")
	b.WriteString("3. **Operational Notes**: Summary of the agent's notes or general observations.\n")
	b.WriteString("4. **Guest Delight**: One guest delight suggestion based on the current occupancy (if high, suggest efficiency; if low, suggest personalized touches).\n\n")
	b.WriteString("Tone: Professional, warm, resort-hospitality style.")
	return b.String()
}

func suggestionPrompt(weather, timeOfDay string) string {
	return fmt.Sprintf(
		"Given the current weather is %q and it is %q at a luxury Maldives resort.\n"+
			"Suggest one specific, actionable task for a Front Desk agent to improve guest experience right now.\n"+
			"Keep it under 15 words.",
		weather, timeOfDay,
	)
}
