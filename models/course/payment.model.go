package course

import "gorm.io/gorm"

// Payment record statuses as written by the payment gateway integration
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentApproved  = "APPROVED"
	PaymentRejected  = "REJECTED"
	PaymentFailed    = "FAILED"
)

// Payment is the enrollment payment record written by the payment
// collaborator. This service only ever reads it; the latest row per
// (user, course) drives the enrollment gate.
type Payment struct {
	gorm.Model
	UserID    uint    `json:"user_id" gorm:"index;not null"`
	CourseID  uint    `json:"course_id" gorm:"index;not null"`
	Amount    float64 `json:"amount" gorm:"default:0"`
	Status    string  `json:"status" gorm:"default:'PENDING'"`
	Reference string  `json:"reference"`
	IsDeleted bool    `gorm:"default:false"`
}
