package users

type UserRepo interface {
	Upsert(user *User) error
	Delete(id int) error
	GetByUsername(username string) (*User, error)
	GetByID(id int) (*User, error)
	List() ([]*User, error)
}
