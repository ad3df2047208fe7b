package notifier

import "github.com/roccity/rally/internal/league"

// Notifier defines a high-level interface for announcing business events.
// This decouples the rest of the application from the specific notification
// provider (e.g., Slack). Notification failures never fail the operation
// that triggered them.
type Notifier interface {
	// SendRoundAnnouncement posts a generated round's court assignments
	// and sitters. names maps player IDs to display names.
	SendRoundAnnouncement(round *league.Round, names map[int]string, dryRun bool) error
	// SendStandings posts the standings, typically at a session boundary.
	SendStandings(rows []league.RankingRow, sessionNumber int, dryRun bool) error
}
