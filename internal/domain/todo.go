package domain

// Todo is a single todo item. It is hard-deleted; there is no soft-delete column.
type Todo struct {
	ID       uint   `gorm:"primaryKey"`
	Contents string `gorm:"size:256;not null"`
	IsDone   bool   `gorm:"not null"`
	UserID   *uint  `gorm:"index"` // nil for todos created without a token
}

func (Todo) TableName() string { return "todo" }

// NewTodo builds an unsaved todo. ID stays zero until the repository creates it.
func NewTodo(contents string, isDone bool, userID *uint) *Todo {
	return &Todo{
		Contents: contents,
		IsDone:   isDone,
		UserID:   userID,
	}
}

func (t *Todo) MarkDone() {
	t.IsDone = true
}

func (t *Todo) MarkUndone() {
	t.IsDone = false
}
