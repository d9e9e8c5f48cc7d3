package model

// SequenceCounter 按实体与周期维护的编号计数器
// 发号走单行原子自增，避免 select-max 并发取到相同序号
type SequenceCounter struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_sequence_name_period,priority:1" json:"name"`
	Period string `gorm:"type:varchar(20);not null;uniqueIndex:idx_sequence_name_period,priority:2" json:"period"`
	Value  int64  `gorm:"not null;default:0" json:"value"`
}

func (*SequenceCounter) TableName() string { return "sequence_counter" }
