package game

import (
	"crypto/rand"
	"math/big"
)

// RandomGenerator 随机数生成器接口
//
// 结果判定与格子填充都通过该接口取随机数，测试时注入
// 脚本化序列即可得到确定性行为。
type RandomGenerator interface {
	// Next 生成下一个随机数 [0,1)
	Next() float64
	// NextInt 生成 [min,max) 范围内的随机整数
	NextInt(min, max int) int
}

// CryptoRandomGenerator 加密安全的随机数生成器
type CryptoRandomGenerator struct{}

// NewCryptoRandomGenerator 创建加密随机数生成器
func NewCryptoRandomGenerator() *CryptoRandomGenerator {
	return &CryptoRandomGenerator{}
}

// Next 生成下一个随机数 [0,1)
func (g *CryptoRandomGenerator) Next() float64 {
	max := big.NewInt(1000000)
	n, _ := rand.Int(rand.Reader, max)
	return float64(n.Int64()) / 1000000.0
}

// NextInt 生成 [min,max) 范围内的随机整数
func (g *CryptoRandomGenerator) NextInt(min, max int) int {
	if min >= max {
		return min
	}
	diff := big.NewInt(int64(max - min))
	n, _ := rand.Int(rand.Reader, diff)
	return min + int(n.Int64())
}
