package model

// User: пользователь.
// Хранится в таблице user_account, e-mail: в user_account_mails.
type User struct {
	// ID: UUID пользователя
	ID string
	// UserName: отображаемое имя
	UserName string
	// Mails: e-mail адреса пользователя
	Mails []string
}
