package domain

// User owns zero or more todos. Password always holds a bcrypt hash.
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"size:256;not null;uniqueIndex"`
	Password string `gorm:"size:256;not null"`
	Todos    []Todo `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string { return "user" }

func NewUser(username, hashedPassword string) *User {
	return &User{
		Username: username,
		Password: hashedPassword,
	}
}
