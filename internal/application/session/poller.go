package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartPolling refreshes the company list every interval until Stop is
// called or ctx is cancelled. A second call replaces the running poller.
func (s *Session) StartPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	s.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	s.pollCancel = cancel
	s.pollWG.Add(1)
	go s.pollLoop(ctx, interval)
	s.logger.Info("company poller started", zap.Duration("interval", interval))
}

// Stop ends the poller and waits for it to exit
func (s *Session) Stop() {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	s.stopLocked()
}

// Polling reports whether a poller is running
func (s *Session) Polling() bool {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	return s.pollCancel != nil
}

// stopLocked requires pollMu. pollLoop never takes pollMu, so waiting
// under it cannot deadlock.
func (s *Session) stopLocked() {
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
	s.pollWG.Wait()
}

func (s *Session) pollLoop(ctx context.Context, interval time.Duration) {
	defer s.pollWG.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RefreshCompanies(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("company refresh failed", zap.Error(err))
			}
		}
	}
}
