package cmd

import (
	"time"

	"github.com/mpucli/mpu/constants"
	"github.com/mpucli/mpu/lib/console"
	"github.com/mpucli/mpu/lib/coordinator"
	"github.com/urfave/cli/v2"
)

// List upload sessions the coordinator currently considers active.
func Sessions(c *cli.Context) error {
	sessions, err := coordinator.New().ActiveSessions(c.Context)
	if err != nil {
		return console.Error("Failed to list active sessions: %v", err)
	}

	if len(sessions) == 0 {
		console.Info("No active upload sessions.")
		return nil
	}

	console.Info("%d active upload session(s):", len(sessions))
	for _, session := range sessions {
		createdAt := session.CreatedAt
		if t, err := time.Parse(time.RFC3339, session.CreatedAt); err == nil {
			createdAt = t.Format(constants.TimeFormat)
		}

		console.Info("  %s  %s  %d bytes  [%s]  created %s", session.UploadID, session.Filename, session.FileSize, session.Status, createdAt)
	}

	return nil
}
