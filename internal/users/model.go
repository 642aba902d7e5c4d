package users

import "time"

// Company é a organização dona da conta.
type Company struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// User é o usuário autenticável do CRM. As permissões ficam
// serializadas como JSON na coluna.
type User struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex" json:"email"`
	Name        string    `json:"name"`
	Password    string    `json:"-"`
	Role        string    `json:"role"`
	Permissions []string  `gorm:"type:jsonb;serializer:json" json:"permissions"`
	Avatar      string    `json:"avatar,omitempty"`
	CompanyID   string    `json:"companyId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
