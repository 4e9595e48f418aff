package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownClientName подставляется CRUD-слоем, когда имя клиента не указано
const UnknownClientName = "Unknown Client"

// Client представляет клиента тренера
type Client struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TrainerID uint   `json:"trainerId" gorm:"not null;index"`
	FullName  string `json:"fullName" gorm:"type:varchar(200)"`
	Email     string `json:"email" gorm:"type:varchar(200)"`
	Phone     string `json:"phone" gorm:"type:varchar(50)"`
	Gender    string `json:"gender" gorm:"type:varchar(20)"`
	Age       *int   `json:"age"`
	Source    string `json:"source" gorm:"type:varchar(100)"`
}

// TableName задает имя таблицы для модели Client
func (Client) TableName() string {
	return "clients"
}

// MissingProfileFields возвращает список незаполненных полей профиля
func (c *Client) MissingProfileFields() []string {
	var missing []string
	name := strings.TrimSpace(c.FullName)
	if name == "" || name == UnknownClientName {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(c.Gender) == "" {
		missing = append(missing, "gender")
	}
	if c.Age == nil || *c.Age <= 0 {
		missing = append(missing, "age")
	}
	if strings.TrimSpace(c.Source) == "" {
		missing = append(missing, "source")
	}
	return missing
}

// DisplayName возвращает имя клиента для заголовков задач
func (c *Client) DisplayName() string {
	name := strings.TrimSpace(c.FullName)
	if name == "" {
		return UnknownClientName
	}
	return name
}

// Package представляет пакет услуг тренера
type Package struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TrainerID     uint            `json:"trainerId" gorm:"not null;index"`
	Name          string          `json:"name" gorm:"not null;type:varchar(200)"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(15,2);not null"`
	DurationValue int             `json:"durationValue"`
	DurationUnit  DurationUnit    `json:"durationUnit" gorm:"type:varchar(10)"`
	IsActive      bool            `json:"isActive" gorm:"default:true"`
}

// TableName задает имя таблицы для модели Package
func (Package) TableName() string {
	return "packages"
}

// TeamMember представляет сотрудника тренера, на которого можно назначать задачи
type TeamMember struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TrainerID uint   `json:"trainerId" gorm:"not null;index"`
	FullName  string `json:"fullName" gorm:"type:varchar(200)"`
	Email     string `json:"email" gorm:"type:varchar(200)"`
	Role      string `json:"role" gorm:"type:varchar(50)"`
}

// TableName задает имя таблицы для модели TeamMember
func (TeamMember) TableName() string {
	return "team_members"
}

// ProgramAssignment представляет назначенную клиенту программу тренировок или питания
type ProgramAssignment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TrainerID      uint       `json:"trainerId" gorm:"not null;index"`
	ClientID       uint       `json:"clientId" gorm:"not null;index"`
	ProgramName    string     `json:"programName" gorm:"type:varchar(200)"`
	NextUpdateDate *time.Time `json:"nextUpdateDate" gorm:"index"`
}

// TableName задает имя таблицы для модели ProgramAssignment
func (ProgramAssignment) TableName() string {
	return "program_assignments"
}
