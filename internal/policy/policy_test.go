package policy

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	custom bool
	active bool
	owners []string
	parent uuid.UUID
}

func (e entry) Custom() bool               { return e.custom }
func (e entry) Active() bool               { return e.active }
func (e entry) OwnedBy(userID string) bool { return e.custom && slices.Contains(e.owners, userID) }
func (e entry) ParentID() uuid.UUID        { return e.parent }

func TestVisibilityAllows(t *testing.T) {
	parent := uuid.New()
	other := uuid.New()

	tests := []struct {
		name  string
		vis   Visibility
		entry entry
		want  bool
	}{
		{"global active", VisibleTo("u1"), entry{active: true}, true},
		{"global inactive", VisibleTo("u1"), entry{}, false},
		{"own custom", VisibleTo("u1"), entry{custom: true, active: true, owners: []string{"u1"}}, true},
		{"co-owned custom", VisibleTo("u2"), entry{custom: true, active: true, owners: []string{"u1", "u2"}}, true},
		{"foreign custom", VisibleTo("u2"), entry{custom: true, active: true, owners: []string{"u1"}}, false},
		{"own custom inactive", VisibleTo("u1"), entry{custom: true, owners: []string{"u1"}}, false},
		{"in scope", VisibleTo("u1").Within(parent), entry{active: true, parent: parent}, true},
		{"out of scope", VisibleTo("u1").Within(parent), entry{active: true, parent: other}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.vis.Allows(tt.entry))
		})
	}
}

func TestVisibilityScopeRequiresScopedEntry(t *testing.T) {
	vis := VisibleTo("u1").Within(uuid.New())

	assert.False(t, vis.Allows(struct{ Shareable }{entry{active: true}}))
}

func TestVisibilityToSql(t *testing.T) {
	sql, args, err := VisibleTo("u1").ToSql()
	require.NoError(t, err)

	assert.Equal(t, "((? = ANY(user_ids_custom) OR is_custom = ?) AND is_active = ?)", sql)
	assert.Equal(t, []interface{}{"u1", false, true}, args)
}

func TestVisibilityToSqlWithScope(t *testing.T) {
	scope := uuid.New()

	sql, args, err := VisibleTo("u1").Within(scope).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "((? = ANY(user_ids_custom) OR is_custom = ?) AND is_active = ? AND category_id = ?)", sql)
	require.Len(t, args, 4)
	assert.Equal(t, []interface{}{"u1", false, true}, args[:3])
}

func TestEditPolicy(t *testing.T) {
	own := entry{custom: true, active: true, owners: []string{"u1"}}
	global := entry{active: true}

	assert.True(t, AnyAuthenticatedCallerMayEdit.Allows(Caller{UserID: "u2"}, own))
	assert.False(t, AnyAuthenticatedCallerMayEdit.Allows(Caller{}, own))

	assert.True(t, OwnerOrAdminOnly.Allows(Caller{UserID: "u1"}, own))
	assert.False(t, OwnerOrAdminOnly.Allows(Caller{UserID: "u2"}, own))
	assert.True(t, OwnerOrAdminOnly.Allows(Caller{UserID: "u2", IsAdmin: true}, own))
	assert.False(t, OwnerOrAdminOnly.Allows(Caller{UserID: "u1"}, global))
	assert.True(t, OwnerOrAdminOnly.Allows(Caller{UserID: "admin", IsAdmin: true}, global))
}

func TestParse(t *testing.T) {
	p, err := ParseEditPolicy("owner")
	require.NoError(t, err)
	assert.Equal(t, OwnerOrAdminOnly, p)

	_, err = ParseEditPolicy("nobody")
	assert.Error(t, err)

	o, err := ParseOwnerOnUpdate("caller")
	require.NoError(t, err)
	assert.Equal(t, ReassignToCaller, o)

	_, err = ParseOwnerOnUpdate("")
	assert.Error(t, err)
}
