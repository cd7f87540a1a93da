package models

type Notification struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
	IsRead  bool   `json:"isRead"`
}
