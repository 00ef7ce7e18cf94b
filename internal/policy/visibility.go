package policy

import (
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// Shareable is implemented by taxonomy entries that can be global or owned by a set of users.
type Shareable interface {
	Custom() bool
	Active() bool
	OwnedBy(userID string) bool
}

// Scoped is implemented by entries that belong to a parent category.
type Scoped interface {
	ParentID() uuid.UUID
}

// Visibility is the regular read path for a user: an entry is visible when it is active and
// either global or owned by the user. A non-nil Scope restricts entries to one parent category.
//
// The same value filters rows server side (ToSql) and checks single records (Allows).
// Admin listings do not go through Visibility at all.
type Visibility struct {
	UserID string
	Scope  uuid.UUID
}

func VisibleTo(userID string) Visibility {
	return Visibility{UserID: userID}
}

// Within returns a copy restricted to children of categoryID.
func (v Visibility) Within(categoryID uuid.UUID) Visibility {
	v.Scope = categoryID
	return v
}

func (v Visibility) Allows(e Shareable) bool {
	if !e.Active() {
		return false
	}
	if e.Custom() && !e.OwnedBy(v.UserID) {
		return false
	}
	if v.Scope != uuid.Nil {
		s, ok := e.(Scoped)
		if !ok || s.ParentID() != v.Scope {
			return false
		}
	}
	return true
}

// ToSql renders (owned OR non_custom) AND active [AND category_scope].
func (v Visibility) ToSql() (string, []interface{}, error) {
	pred := squirrel.And{
		squirrel.Or{OwnedBy(v.UserID), NonCustom()},
		Active(),
	}
	if v.Scope != uuid.Nil {
		pred = append(pred, InCategory(v.Scope))
	}
	return pred.ToSql()
}

func OwnedBy(userID string) squirrel.Sqlizer {
	return squirrel.Expr("? = ANY(user_ids_custom)", userID)
}

func NonCustom() squirrel.Sqlizer {
	return squirrel.Eq{"is_custom": false}
}

func Active() squirrel.Sqlizer {
	return squirrel.Eq{"is_active": true}
}

func InCategory(categoryID uuid.UUID) squirrel.Sqlizer {
	return squirrel.Eq{"category_id": categoryID}
}
