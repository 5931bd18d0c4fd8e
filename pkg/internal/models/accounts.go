package models

type Account struct {
	BaseModel

	Name        string `json:"name" gorm:"uniqueIndex"`
	Password    string `json:"-"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

// AuthorSnapshot is the part of an account copied onto every post it writes.
type AuthorSnapshot struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (v Account) Snapshot() AuthorSnapshot {
	return AuthorSnapshot{Name: v.Name, Avatar: v.Avatar}
}
