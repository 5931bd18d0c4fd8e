package models

type ReactionAttitude = uint8

const (
	AttitudeNeutral = ReactionAttitude(iota)
	AttitudePositive
	AttitudeNegative
)

type Reaction struct {
	BaseModel

	Symbol    string           `json:"symbol" gorm:"uniqueIndex:idx_reaction_unique"`
	Attitude  ReactionAttitude `json:"attitude"`
	PostID    uint             `json:"post_id" gorm:"uniqueIndex:idx_reaction_unique;index"`
	AccountID uint             `json:"account_id" gorm:"uniqueIndex:idx_reaction_unique;index"`
}

type Comment struct {
	BaseModel

	Content   string `json:"content"`
	PostID    uint   `json:"post_id" gorm:"index"`
	AccountID uint   `json:"account_id" gorm:"index"`
}
