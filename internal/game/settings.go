package game

import (
	"sync"

	apperrors "github.com/wfunc/match-game/internal/errors"
)

// Difficulty 全局难度枚举
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// ParseDifficulty 解析难度字符串
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	default:
		return "", apperrors.New(apperrors.ErrInvalidDifficulty, s)
	}
}

// Adjustment 难度对中奖概率的修正值
func (d Difficulty) Adjustment() float64 {
	switch d {
	case DifficultyEasy:
		return 0.10
	case DifficultyHard:
		return -0.10
	default:
		return 0
	}
}

// Settings 进程级可变游戏设置
//
// 管理端写、每次结果判定读。读远多于写，RWMutex保护，
// 并发写采用后写覆盖（单写者假设）。
type Settings struct {
	mu         sync.RWMutex
	difficulty Difficulty
}

// NewSettings 创建游戏设置
func NewSettings(difficulty Difficulty) *Settings {
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	return &Settings{difficulty: difficulty}
}

// Difficulty 读取当前难度
func (s *Settings) Difficulty() Difficulty {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.difficulty
}

// SetDifficulty 设置难度（无条件覆盖）
func (s *Settings) SetDifficulty(d Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.difficulty = d
}
