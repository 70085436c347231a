// internal/domain/lead/entity.go
package lead

import (
	"context"
	"time"
)

const SourceWebsite = "Website"

type Lead struct {
	ID        string    `json:"name" db:"id"`
	LeadName  string    `json:"lead_name" db:"lead_name"`
	Email     string    `json:"email_id" db:"email"`
	Notes     string    `json:"notes" db:"notes"`
	Source    string    `json:"source" db:"source"`
	CreatedAt time.Time `json:"creation" db:"created_at"`
}

type ContactRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

type Repository interface {
	Create(ctx context.Context, l *Lead) error
}
