package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is a free-text note kept by the operator
type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"titulo"`
	Content   string    `gorm:"type:text;not null" json:"conteudo"`
	CreatedAt time.Time `json:"data_criacao"`
	UpdatedAt time.Time `gorm:"index" json:"data_modificacao"`
}

// BeforeCreate generates a UUID before creating a new note
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Note model
func (Note) TableName() string {
	return "notas"
}
