package model

// Task statuses
const (
	TaskToDo       = "To-Do"
	TaskInProgress = "In Progress"
	TaskCompleted  = "Completed"
)

type Task struct {
	TaskID      string `gorm:"column:task_id;type:varchar(64);primaryKey" json:"task_id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Assignee    string `gorm:"type:varchar(100)" json:"assignee"`
	Status      string `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedDate string `gorm:"type:varchar(10)" json:"created_date"`
	DueDate     string `gorm:"type:varchar(10)" json:"due_date"`
	Base
}

func (t *Task) RecordKey() string { return t.TaskID }
