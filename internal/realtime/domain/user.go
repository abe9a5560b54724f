package domain

// User 使用者目錄中的一筆資料 (由 CRUD 服務維護, 此處唯讀)
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Auth     string `json:"auth"`
}

// AuthAdmin auth value of administrators
const AuthAdmin = "admin"
