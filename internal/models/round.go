package models

// RoundRecord 回合记录表
//
// complete 阶段落库一条，供管理端统计使用。格子内容仅作审计，
// 不参与任何后续逻辑（回合状态本身只存在内存里）。
type RoundRecord struct {
	BaseModel
	RoundNo     string      `gorm:"uniqueIndex;size:64;not null" json:"round_no"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	Username    string      `gorm:"size:50;index" json:"username"`
	BetAmount   int64       `gorm:"not null" json:"bet_amount"`
	Outcome     string      `gorm:"size:20;not null;index" json:"outcome"` // WIN, LOSS, NEAR_MISS
	FirstSymbol string      `gorm:"size:20" json:"first_symbol"`
	Grid        StringArray `gorm:"type:json" json:"grid"`
	Overridden  bool        `gorm:"default:false" json:"overridden"` // 是否由管理端强制结果
}

// TableName 指定表名
func (RoundRecord) TableName() string {
	return "round_records"
}

// IsWin 是否中奖
func (r *RoundRecord) IsWin() bool {
	return r.Outcome == "WIN"
}
