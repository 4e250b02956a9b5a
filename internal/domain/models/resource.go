package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is a published directory entry.
//
// ID is the storage address and the only key used for writes. Number is the
// human-facing identifier shown in the admin list; it is an ordinary attribute.
type Resource struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number  int64              `bson:"number" json:"number"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped

	Category    Category `bson:"category" json:"category"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Website     string   `bson:"website,omitempty" json:"website,omitempty"`
	ImageURL    string   `bson:"image_url,omitempty" json:"image_url,omitempty"`

	// SourcePendingID is set when the resource was produced by approving a submission.
	SourcePendingID *primitive.ObjectID `bson:"source_pending_id,omitempty" json:"-"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"-"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"-"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"-"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"-"`
}

// HasAddress reports whether r carries a storage address.
func (r Resource) HasAddress() bool {
	return !r.ID.IsZero()
}

// ResourceInput holds the admin-editable fields of a Resource.
type ResourceInput struct {
	Title       string
	Category    Category
	Description string
	Website     string
	ImageURL    string
}
