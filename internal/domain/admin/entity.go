package admin

// Admin is a back-office credential row.
type Admin struct {
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
}
