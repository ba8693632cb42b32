package game

import (
	"sync"
	"time"
)

// PendingRound 待结算回合
//
// init阶段创建，complete阶段消费删除，生命周期横跨一局游戏
// 的两次HTTP往返。每个用户至多一个。
type PendingRound struct {
	Outcome     Outcome
	FirstSymbol string
	BetAmount   int64
	Overridden  bool
	CreatedAt   time.Time
}

// SessionManager 回合状态管理器
//
// 纯内存，进程生命周期。每个用户持有一把互斥锁，init的
// 扣款/判定/存储与complete的消费/合成在锁内串行执行，
// 并发请求不可能重复扣款或重复结算同一回合。
type SessionManager struct {
	mu     sync.Mutex
	rounds map[string]*PendingRound
	locks  map[string]*sync.Mutex
}

// NewSessionManager 创建回合状态管理器
func NewSessionManager() *SessionManager {
	return &SessionManager{
		rounds: make(map[string]*PendingRound),
		locks:  make(map[string]*sync.Mutex),
	}
}

// UserLock 获取用户级互斥锁（懒创建，从不回收）
func (m *SessionManager) UserLock(username string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[username]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[username] = lock
	}
	return lock
}

// Put 存储用户的待结算回合
//
// 已有待结算回合时直接覆盖，与既有行为一致（旧回合的扣款
// 不退还）。
func (m *SessionManager) Put(username string, round *PendingRound) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[username] = round
}

// Consume 原子地取出并删除用户的待结算回合
func (m *SessionManager) Consume(username string) (*PendingRound, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	round, ok := m.rounds[username]
	if ok {
		delete(m.rounds, username)
	}
	return round, ok
}

// Peek 查看用户的待结算回合（不消费）
func (m *SessionManager) Peek(username string) (*PendingRound, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	round, ok := m.rounds[username]
	return round, ok
}

// ActiveCount 当前待结算回合数量
func (m *SessionManager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rounds)
}
