package internal

import (
	"fmt"
	"pair-lab/infrastructure/storage"
	"strings"

	"github.com/mama165/sdk-go/database"
)

// SessionMapper renders session records and orphan ledger entries in the
// badger inspector. Index keys fall back to the default row.
func SessionMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, "session:rec:"):
		session, err := storage.DecodeSession(val)
		if err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "SESSION"
		row.Namespace = string(session.Status)
		row.EntityID = string(session.ID)
		row.Timestamp = session.CreatedAt.Format("15:04:05")
		row.Detail = fmt.Sprintf("%s [%s] host=%s participant=%s handle=%s",
			session.Problem, session.Difficulty, session.Host.ID, session.Participant.ID, session.Handle)
	case strings.HasPrefix(key, "orphan:"):
		orphan, err := storage.DecodeOrphan(val)
		if err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "ORPHAN"
		row.EntityID = string(orphan.SessionID)
		row.Timestamp = orphan.RecordedAt.Format("15:04:05")
		row.Detail = fmt.Sprintf("%s attempts=%d last_error=%s", orphan.Handle, orphan.Attempts, orphan.LastError)
	default:
		row.Type = "INDEX"
	}
	return row
}
