package wechat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/okami-inn/okami/internal/config"
	"github.com/okami-inn/okami/internal/lang"
)

// Manager owns the bot accounts for one deployment and polls them each
// cycle. The directory is loaded at construction and read-only after.
type Manager struct {
	accounts []*Account
	chat     ChatClient
	detector *lang.Detector
}

// NewManager builds accounts from the environment's directory file.
func NewManager(cfg *config.Config, chat ChatClient, detector *lang.Detector) *Manager {
	directory := LoadDirectory(cfg.WeChat.AccountsFile, cfg.DirectoryEnvironment())
	return NewManagerWithDirectory(cfg, directory, chat, detector)
}

// NewManagerWithDirectory builds a manager over an explicit directory.
func NewManagerWithDirectory(cfg *config.Config, directory *Directory, chat ChatClient, detector *lang.Detector) *Manager {
	if err := directory.Validate(); err != nil {
		slog.Warn("account directory has incomplete records", "error", err)
	}
	baseURL := cfg.GatewayBaseURL()

	accounts := make([]*Account, 0, len(directory.Records()))
	for _, record := range directory.Records() {
		var limiter *rate.Limiter
		if n := cfg.WeChat.SendRatePerMinute; n > 0 {
			limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
		}
		accounts = append(accounts, NewAccount(record, baseURL, directory, limiter))
	}

	return &Manager{accounts: accounts, chat: chat, detector: detector}
}

// Accounts returns the managed accounts.
func (m *Manager) Accounts() []*Account {
	return m.accounts
}

// SchedulePullingMessages polls every account concurrently. Accounts
// are independent: one account's failure is logged at this boundary and
// never aborts its siblings.
func (m *Manager) SchedulePullingMessages(ctx context.Context) {
	var wg sync.WaitGroup
	for _, account := range m.accounts {
		wg.Add(1)
		go func(account *Account) {
			defer wg.Done()
			if err := m.ProcessAccount(ctx, account); err != nil {
				slog.Error("account processing failed", "agent", account.AgentID, "error", err)
			}
		}(account)
	}
	wg.Wait()
}

// ProcessAccount runs one account's cycle: fetch, pre-filter system
// noise, gate on eligibility, then hand the batch to a one-shot worker.
func (m *Manager) ProcessAccount(ctx context.Context, account *Account) error {
	messages, err := account.FetchMessages(ctx)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		slog.Debug("currently no messages", "agent", account.AgentID)
		return nil
	}

	batchID := uuid.NewString()
	slog.Info("received message batch",
		"batch", batchID,
		"agent", account.AgentID,
		"count", len(messages),
	)

	filtered := FilterSystemMessages(messages)
	worker := NewWorker(filtered, account, m.chat, m.detector)
	if !worker.HasIncomingMessage() {
		slog.Debug("batch not eligible for routing", "batch", batchID)
		return nil
	}
	return worker.ProcessMessages(ctx, account.Key)
}

// Run drives the polling loop until ctx is cancelled. Cancellation is
// checked between cycles only; in-flight work finishes its cycle.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	slog.Info("monitoring wechat messages", "accounts", len(m.accounts), "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.SchedulePullingMessages(ctx)
		select {
		case <-ctx.Done():
			slog.Info("monitoring stopped")
			return
		case <-ticker.C:
		}
	}
}
