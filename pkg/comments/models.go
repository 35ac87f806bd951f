package comments

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/iziplay/gallery/pkg/oid"
)

// MaxNameLength bounds the commenter name.
const MaxNameLength = 64

var (
	ErrInvalidObjectID = errors.New("object id must be 1 to 32 letters or digits")
	ErrInvalidName     = errors.New("name must be 1 to 64 characters")
	ErrEmptyComment    = errors.New("comment must not be empty")
)

// Comment is one visitor note on a museum object.
type Comment struct {
	ID        int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	ObjectID  string    `json:"-" gorm:"column:object_id;size:32;index:idx_comment_object"`
	Name      string    `json:"name" gorm:"size:64"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"-"`
}

// ObjectCount is the number of comments left on one object.
type ObjectCount struct {
	ObjectID string `json:"oid"`
	Count    int    `json:"count"`
}

// Stats summarises stored comments.
type Stats struct {
	Comments int           `json:"comments"`
	Objects  int           `json:"objects"`
	Top      []ObjectCount `json:"top"`
}

// TopObjects is how many objects Stats ranks.
const TopObjects = 10

// Store persists comments with parameterised statements.
type Store interface {
	// List returns the comments on an object, oldest first.
	List(ctx context.Context, objectID string) ([]Comment, error)
	// Add stores a comment and returns its row id.
	Add(ctx context.Context, objectID, name, comment string) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
	// Ping checks the connection.
	Ping(ctx context.Context) error
	Close() error
}

// Validate normalises the object id and checks the form fields.
func Validate(objectID, name, comment string) (string, error) {
	id := oid.Normalize(objectID)
	if id == "" {
		return "", ErrInvalidObjectID
	}
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return "", ErrInvalidName
	}
	if comment == "" {
		return "", ErrEmptyComment
	}
	return id, nil
}
