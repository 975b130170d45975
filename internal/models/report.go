package models

import (
	"errors"
	"time"

	vd "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"
)

// Report statuses.
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
)

// ReportReasons lists the reasons offered on the report form, in display order.
var ReportReasons = []ReportReason{
	{Value: "spam", Label: "Spam"},
	{Value: "harassment", Label: "Harassment or bullying"},
	{Value: "misinformation", Label: "Climate misinformation"},
	{Value: "inappropriate", Label: "Inappropriate content"},
	{Value: "other", Label: "Other"},
}

// ReportStatuses are all statuses a report may hold.
var ReportStatuses = []string{ReportStatusPending, ReportStatusReviewed, ReportStatusDismissed}

// ReportReason is a selectable report reason.
type ReportReason struct {
	Value string
	Label string
}

// IsValidReportReason reports whether value is one of ReportReasons.
func IsValidReportReason(value string) bool {
	return lo.ContainsBy(ReportReasons, func(r ReportReason) bool { return r.Value == value })
}

// Report is a moderation request against exactly one post or comment.
type Report struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      *uint     `gorm:"index" json:"post_id,omitempty"`
	Post        *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	CommentID   *uint     `gorm:"index" json:"comment_id,omitempty"`
	Comment     *Comment  `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	ReporterID  uint      `gorm:"not null" json:"reporter_id"`
	Reporter    User      `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" json:"-"`
	Reason      string    `gorm:"not null" json:"reason"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"not null;default:pending;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the report's target, reason and status.
func (r *Report) Validate() error {
	if (r.PostID == nil) == (r.CommentID == nil) {
		return NewValidationError("A report must target exactly one post or comment.")
	}
	if err := vd.Validate(r.Reason,
		vd.Required.Error("Please select a reason for reporting."),
		vd.By(func(v interface{}) error {
			if s, _ := v.(string); !IsValidReportReason(s) {
				return errors.New("Please select a valid reason for reporting.")
			}
			return nil
		}),
	); err != nil {
		return NewValidationError(err.Error())
	}
	if err := vd.Validate(r.Status, vd.Required, vd.In(lo.ToAnySlice(ReportStatuses)...)); err != nil {
		return NewValidationError("Invalid report status.")
	}
	return nil
}
