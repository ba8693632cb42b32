package game

import (
	"sync"
)

// OverrideStore 管理端强制结果存储
//
// 用户名到强制结果的映射，消费即删除（至多生效一次）。
// 从不参与的用户的条目不会过期。
type OverrideStore struct {
	mu        sync.Mutex
	overrides map[string]Outcome
}

// NewOverrideStore 创建强制结果存储
func NewOverrideStore() *OverrideStore {
	return &OverrideStore{
		overrides: make(map[string]Outcome),
	}
}

// Set 设置用户下一回合的强制结果（无条件覆盖已有条目）
func (s *OverrideStore) Set(username string, outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[username] = outcome
}

// Consume 原子地读取并删除用户的强制结果
func (s *OverrideStore) Consume(username string) (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, ok := s.overrides[username]
	if ok {
		delete(s.overrides, username)
	}
	return outcome, ok
}

// Len 当前待生效的强制结果数量
func (s *OverrideStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.overrides)
}
