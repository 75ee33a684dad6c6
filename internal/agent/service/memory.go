package service

import (
	"strings"
	"sync"

	"stock-insight/internal/entity"
)

// ConversationMemory keeps per-ticker chat history in memory. History is
// capped per ticker so a long-running session never grows without bound, and
// everything is lost on restart.
type ConversationMemory struct {
	mu           sync.RWMutex
	maxExchanges int
	history      map[string][]entity.ChatExchange
}

// NewConversationMemory creates a memory keeping at most maxExchanges
// exchanges per ticker.
func NewConversationMemory(maxExchanges int) *ConversationMemory {
	return &ConversationMemory{
		maxExchanges: maxExchanges,
		history:      make(map[string][]entity.ChatExchange),
	}
}

// Append records a user/assistant exchange for the ticker, evicting the
// oldest exchange once the cap is reached.
func (m *ConversationMemory) Append(ticker string, exchange entity.ChatExchange) {
	key := strings.ToUpper(ticker)

	m.mu.Lock()
	defer m.mu.Unlock()

	history := append(m.history[key], exchange)
	if len(history) > m.maxExchanges {
		history = history[len(history)-m.maxExchanges:]
	}
	m.history[key] = history
}

// Recent returns up to n most recent exchanges for the ticker, oldest first.
func (m *ConversationMemory) Recent(ticker string, n int) []entity.ChatExchange {
	key := strings.ToUpper(ticker)

	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.history[key]
	if len(history) > n {
		history = history[len(history)-n:]
	}

	out := make([]entity.ChatExchange, len(history))
	copy(out, history)
	return out
}

// Clear drops all history for the ticker and reports whether any existed.
func (m *ConversationMemory) Clear(ticker string) bool {
	key := strings.ToUpper(ticker)

	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.history[key]
	delete(m.history, key)
	return ok
}

// Stats returns the number of tracked tickers and total stored exchanges.
func (m *ConversationMemory) Stats() (tickers int, exchanges int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, history := range m.history {
		exchanges += len(history)
	}
	return len(m.history), exchanges
}
