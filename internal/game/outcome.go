package game

import (
	apperrors "github.com/wfunc/match-game/internal/errors"
)

// Outcome 回合结果枚举
type Outcome string

const (
	OutcomeWin      Outcome = "WIN"
	OutcomeLoss     Outcome = "LOSS"
	OutcomeNearMiss Outcome = "NEAR_MISS"
)

// ParseOutcome 解析结果字符串
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeWin, OutcomeLoss, OutcomeNearMiss:
		return Outcome(s), nil
	default:
		return "", apperrors.New(apperrors.ErrInvalidOutcome, s)
	}
}

// Tier 消费档位
type Tier string

const (
	TierA Tier = "A" // 累计消费 < 50
	TierB Tier = "B" // 累计消费 < 200
	TierC Tier = "C" // 其余
)

// TierFor 根据累计消费计算档位
func TierFor(totalSpent int64) Tier {
	switch {
	case totalSpent < 50:
		return TierA
	case totalSpent < 200:
		return TierB
	default:
		return TierC
	}
}

// BaseWinRate 档位基础中奖概率
func (t Tier) BaseWinRate() float64 {
	switch t {
	case TierA:
		return 0.80
	case TierB:
		return 0.40
	default:
		return 0.10
	}
}

// OutcomePolicy 结果判定策略
//
// 判定顺序：强制结果 → 档位基础概率 + 难度修正 → 随机判定。
// 修正后的概率不做[0,1]截断，档位C加HARD难度意味着永不中奖，
// 这是沿用的既有口径。
type OutcomePolicy struct {
	settings     *Settings
	overrides    *OverrideStore
	rng          RandomGenerator
	nearMissRate float64
}

// NewOutcomePolicy 创建结果判定策略
func NewOutcomePolicy(settings *Settings, overrides *OverrideStore, rng RandomGenerator, nearMissRate float64) *OutcomePolicy {
	if rng == nil {
		rng = NewCryptoRandomGenerator()
	}
	if nearMissRate <= 0 {
		nearMissRate = 0.7
	}
	return &OutcomePolicy{
		settings:     settings,
		overrides:    overrides,
		rng:          rng,
		nearMissRate: nearMissRate,
	}
}

// WinRate 计算用户当前中奖概率（未截断）
func (p *OutcomePolicy) WinRate(totalSpent int64) float64 {
	return TierFor(totalSpent).BaseWinRate() + p.settings.Difficulty().Adjustment()
}

// Decide 判定一个回合的结果
//
// 返回结果以及是否来自管理端强制。除强制结果的消费删除外
// 没有任何副作用。
func (p *OutcomePolicy) Decide(username string, totalSpent int64) (Outcome, bool) {
	// 强制结果优先，绕过所有概率逻辑
	if outcome, ok := p.overrides.Consume(username); ok {
		return outcome, true
	}

	if p.rng.Next() < p.WinRate(totalSpent) {
		return OutcomeWin, false
	}

	// 未中奖时高概率判成差一点，制造"就差一张"的体验
	if p.rng.Next() < p.nearMissRate {
		return OutcomeNearMiss, false
	}
	return OutcomeLoss, false
}
