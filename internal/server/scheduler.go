package server

import (
	"bytes"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lendbook-dev/lendbook/internal/notify"
	"github.com/lendbook-dev/lendbook/internal/report"
)

// StartRefresher schedules a periodic RefreshAll on the given cron spec and
// returns the started runner. When sender is non-nil and configured, the
// refreshed combined statement is emailed after each run. The caller stops
// the runner on shutdown.
func (s *Server) StartRefresher(spec string, sender *notify.Sender) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		loans, err := s.svc.RefreshAll(time.Now())
		if err != nil {
			s.logger.Errorf("scheduled refresh failed: %v", err)
			return
		}
		s.invalidate()
		s.logger.Infof("scheduled refresh complete: %d loans", len(loans))

		if sender == nil || !sender.Configured() {
			return
		}
		var buf bytes.Buffer
		report.RenderText(&buf, report.BuildCombined(loans))
		subject := "Loan statement " + time.Now().Format("2006-01-02")
		if err := sender.SendStatement(subject, buf.String()); err != nil {
			s.logger.Errorf("emailing statement: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling refresh %q: %w", spec, err)
	}

	c.Start()
	s.logger.Infof("refresh scheduled: %s", spec)
	return c, nil
}
