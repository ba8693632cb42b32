package game

import (
	apperrors "github.com/wfunc/match-game/internal/errors"
)

// GridSize 格子总数，3行2列按行排列：(0,1)/(2,3)/(4,5)
const GridSize = 6

// DefaultSymbols 默认展示符号表，前3个为基础符号
var DefaultSymbols = []string{"🍎", "🍌", "🍇", "🍒", "💎", "7️⃣"}

// adjacency 3x2布局的相邻表
var adjacency = [GridSize][]int{
	0: {1, 2},
	1: {0, 3},
	2: {0, 3, 4},
	3: {1, 2, 5},
	4: {2, 5},
	5: {3, 4},
}

// Synthesizer 格子合成器
//
// 无状态，每次complete调用生成一张与已定结果、客户端已展示的
// 第一张牌以及玩家选择位置一致的完整格子。
type Synthesizer struct {
	symbols   []string // 展示符号表（6个）
	baseCount int      // 基础符号数量（不匹配符号从前N个中扫描）
	rng       RandomGenerator
}

// NewSynthesizer 创建格子合成器
func NewSynthesizer(symbols []string, baseCount int, rng RandomGenerator) *Synthesizer {
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	if baseCount <= 0 || baseCount > len(symbols) {
		baseCount = 3
	}
	if rng == nil {
		rng = NewCryptoRandomGenerator()
	}
	return &Synthesizer{
		symbols:   symbols,
		baseCount: baseCount,
		rng:       rng,
	}
}

// RandomBaseSymbol 从基础符号表中均匀抽取一个符号
// （init阶段客户端未上报第一张牌时的兜底）
func (s *Synthesizer) RandomBaseSymbol() string {
	return s.symbols[s.rng.NextInt(0, s.baseCount)]
}

// MismatchSymbol 返回基础符号表中第一个与firstSymbol不同的符号
//
// 固定扫描顺序的纯函数。客户端本地乐观展示第二张牌时执行
// 完全相同的规则，双方不需要额外往返就能保持一致。
func (s *Synthesizer) MismatchSymbol(firstSymbol string) string {
	for _, sym := range s.symbols[:s.baseCount] {
		if sym != firstSymbol {
			return sym
		}
	}
	// firstSymbol不在基础符号表中时不可达，保底返回第一个
	return s.symbols[0]
}

// ValidateSelection 校验选牌下标：恰好两个、互不相同、范围内
func ValidateSelection(indices []int) error {
	if len(indices) != 2 {
		return apperrors.Newf(apperrors.ErrInvalidSelection, "需要选择2个位置，收到%d个", len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= GridSize {
			return apperrors.Newf(apperrors.ErrInvalidSelection, "下标 %d 超出范围", idx)
		}
	}
	if indices[0] == indices[1] {
		return apperrors.Newf(apperrors.ErrInvalidSelection, "两个位置不能相同: %d", indices[0])
	}
	return nil
}

// Synthesize 根据结果合成完整格子
//
// idx1固定放firstSymbol（复现客户端已展示的第一张牌）。
// WIN时idx2也放firstSymbol；否则idx2放确定性的不匹配符号。
// NEAR_MISS时在idx2相邻的空位里放一个firstSymbol作诱饵，
// 没有空相邻位则不放（结果标签不变）。剩余空位从完整符号表
// 均匀填充，纯视觉噪音，可能凑出额外的巧合配对。
func (s *Synthesizer) Synthesize(outcome Outcome, firstSymbol string, idx1, idx2 int) []string {
	grid := make([]string, GridSize)

	grid[idx1] = firstSymbol

	if outcome == OutcomeWin {
		grid[idx2] = firstSymbol
	} else {
		grid[idx2] = s.MismatchSymbol(firstSymbol)

		if outcome == OutcomeNearMiss {
			if decoy := firstEmptyAdjacent(grid, idx2); decoy != -1 {
				grid[decoy] = firstSymbol
			}
		}
	}

	for i := range grid {
		if grid[i] == "" {
			grid[i] = s.symbols[s.rng.NextInt(0, len(s.symbols))]
		}
	}

	return grid
}

// firstEmptyAdjacent 返回idx相邻位置中第一个空位，没有则返回-1
func firstEmptyAdjacent(grid []string, idx int) int {
	for _, candidate := range adjacency[idx] {
		if grid[candidate] == "" {
			return candidate
		}
	}
	return -1
}
