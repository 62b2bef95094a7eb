package command

import (
	"fmt"
	"strings"

	"github.com/adamavenir/recall/internal/history"
	"github.com/gen2brain/beeep"
)

// notifier sends a desktop notification. Tests swap it out.
var notifier = beeep.Notify

func sendChangeNotification(change history.Change) error {
	added := change.Added.Count()
	removed := change.Removed.Count()
	if added == 0 && removed == 0 {
		return nil
	}
	title := "recall"
	body := fmt.Sprintf("%d added, %d removed", added, removed)
	if lines := changeLines("+", change.Added); len(lines) > 0 {
		body = truncateNotification(strings.TrimPrefix(lines[0], "+ "), 100)
		if added > 1 {
			body = fmt.Sprintf("%s (+%d more)", body, added-1)
		}
	}
	return notifier(title, body, "")
}

func truncateNotification(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}
