package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/foxnuts/internal/config"
	"github.com/five82/foxnuts/internal/logtail"
)

const issueTimeFormat = "2006-01-02 15:04:05"

// PrintSyncIssues writes the failed mirror calls found in the last lines of
// the client log to w. It does not open storage or start the UI.
func PrintSyncIssues(w io.Writer, configPath string, lines int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	issues, err := logtail.SyncIssues(cfg.LogPath(), lines)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		_, err := fmt.Fprintf(w, "No sync issues in %s\n", cfg.LogPath())
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "OPERATION", "ERROR")
	for _, is := range issues {
		t.Row(is.Time.Local().Format(issueTimeFormat), is.Op, is.Error)
	}
	_, err = fmt.Fprintf(w, "%s\n%d change(s) were kept locally but not synced.\n", t.Render(), len(issues))
	return err
}
