package entity

type SupportGroup struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	Icon        string
	IsJoined    bool
}
