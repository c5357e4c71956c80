package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mwhitt/trivvy/internal/models"
)

// maxMessageLength is the Discord message content limit
const maxMessageLength = 2000

// FormatAnswerList renders submitted answers for admins, oldest first, with
// an "(updated)" marker on resubmissions
func FormatAnswerList(answers []*models.Answer) string {
	if len(answers) == 0 {
		return "No answers submitted yet"
	}

	sorted := make([]*models.Answer, len(answers))
	copy(sorted, answers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var sb strings.Builder
	sb.WriteString("**Submitted Answers:**\n")

	for idx, answer := range sorted {
		marker := ""
		if answer.IsUpdated {
			marker = " (updated)"
		}
		fmt.Fprintf(&sb, "%d. **%s**: %s%s\n", idx+1, answer.Username, answer.Text, marker)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// splitMessage breaks content into chunks that fit the message limit,
// preferring line boundaries
func splitMessage(content string, limit int) []string {
	if len(content) <= limit {
		return []string{content}
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.Split(content, "\n") {
		// A single oversized line is hard-split
		for len(line) > limit {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}

		if current.Len() > 0 && current.Len()+len(line)+1 > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
