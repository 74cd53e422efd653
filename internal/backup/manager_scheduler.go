// Steamvault - Steam Library Backup
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamvault

/*
manager_scheduler.go - Backup Scheduling

Timer Logic:
  - For intervals >= 24h with a preferred hour: the next run is the next
    occurrence of that local hour, plus whole extra days for longer
    intervals
  - Otherwise: the interval is added to the current time
  - The timer is reset after each run completes, so a slow run pushes the
    following one back instead of overlapping it

Startup:
  - With backup.schedule.run_on_startup a run starts immediately and the
    timer is armed after it.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/steamvault/internal/logging"
)

// runScheduler runs the backup scheduler loop
func (m *Manager) runScheduler(ctx context.Context) {
	defer m.wg.Done()

	if m.cfg.Backup.Schedule.RunOnStartup {
		m.scheduledRun(ctx, TriggerStartup)
	}

	next := m.calculateNextRunTime(m.now())
	m.setNextScheduled(next)

	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.schedulerStop:
			return
		case <-timer.C:
			m.scheduledRun(ctx, TriggerScheduled)

			now := m.now()
			next = m.calculateNextRunTime(now)
			m.stateMu.Lock()
			m.lastScheduled = &now
			m.nextScheduled = &next
			m.stateMu.Unlock()

			timer.Reset(time.Until(next))
		}
	}
}

func (m *Manager) scheduledRun(ctx context.Context, trigger Trigger) {
	record, err := m.Run(ctx, trigger)
	switch {
	case errors.Is(err, ErrRunInProgress):
		logging.Warn().Str("trigger", string(trigger)).Msg("Scheduled backup skipped, a run is already in progress")
	case err != nil:
		logging.Error().Err(err).Str("run_id", record.ID).Msg("Scheduled backup finished with errors")
	default:
		logging.Info().Str("run_id", record.ID).Msg("Scheduled backup completed")
	}
}

func (m *Manager) setNextScheduled(next time.Time) {
	m.stateMu.Lock()
	m.nextScheduled = &next
	m.stateMu.Unlock()
}

// calculateNextRunTime determines when the next scheduled run should start
func (m *Manager) calculateNextRunTime(now time.Time) time.Time {
	interval := m.cfg.Backup.Schedule.Interval
	hour := m.cfg.Backup.Schedule.PreferredHour

	if interval >= 24*time.Hour && hour >= 0 {
		// Daily or longer - use preferred hour
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())

		// If we've already passed the preferred hour today, schedule for tomorrow
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		// Add additional days if interval is more than 24h
		if days := int(interval.Hours() / 24); days > 1 {
			next = next.AddDate(0, 0, days-1)
		}

		return next
	}

	// Shorter interval - just add interval to now
	return now.Add(interval)
}
