package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingStatus is the moderation state of a submission.
type PendingStatus string

const (
	PendingStatusPending PendingStatus = "pending"
	// PendingStatusApproving marks an approval that has been claimed but not
	// finalized. The record still exists, and ApprovedResourceID names the
	// resource the approval will produce.
	PendingStatusApproving PendingStatus = "approving"
	PendingStatusApproved  PendingStatus = "approved"
	PendingStatusRejected  PendingStatus = "rejected"
)

// PendingStatuses is used for schema enums.
var PendingStatuses = []string{
	string(PendingStatusPending),
	string(PendingStatusApproving),
	string(PendingStatusApproved),
	string(PendingStatusRejected),
}

// PendingResource is a public submission awaiting an admin decision.
type PendingResource struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Category    PendingCategory    `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	WebsiteURL  string             `bson:"website_url,omitempty" json:"website_url,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`

	Address string   `bson:"address,omitempty" json:"address,omitempty"`
	Phone   string   `bson:"phone,omitempty" json:"phone,omitempty"`
	Email   string   `bson:"email,omitempty" json:"email,omitempty"`
	Hours   string   `bson:"hours,omitempty" json:"hours,omitempty"`
	Tags    []string `bson:"tags,omitempty" json:"tags,omitempty"`

	// Contact metadata, kept only while the submission is pending.
	SubmitterName  string `bson:"submitter_name,omitempty" json:"submitter_name,omitempty"`
	SubmitterEmail string `bson:"submitter_email,omitempty" json:"submitter_email,omitempty"`

	Status             PendingStatus       `bson:"status" json:"status"`
	ApprovedResourceID *primitive.ObjectID `bson:"approved_resource_id,omitempty" json:"approved_resource_id,omitempty"`
	ClaimedAt          *time.Time          `bson:"claimed_at,omitempty" json:"claimed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ToResource builds the published shape of p. Storage address, number and
// audit fields are left for the caller.
func (p PendingResource) ToResource() Resource {
	return Resource{
		Title:       p.Name,
		Category:    TranslateCategory(p.Category),
		Description: p.Description,
		Website:     p.WebsiteURL,
		ImageURL:    p.ImageURL,
	}
}
