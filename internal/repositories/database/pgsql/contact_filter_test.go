package pgsql

import (
	"errors"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ucontacts/contacts_app/internal/apperrors"
)

func buildSQL(t *testing.T, conds []sq.Sqlizer) (string, []interface{}) {
	t.Helper()
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("contact_id").From("contacts")
	for _, c := range conds {
		builder = builder.Where(c)
	}
	query, args, err := builder.ToSql()
	require.NoError(t, err)
	return query, args
}

func TestParseContactFilter_Empty(t *testing.T) {
	conds, err := parseContactFilter("")
	require.NoError(t, err)
	assert.Empty(t, conds)

	conds, err = parseContactFilter("   ")
	require.NoError(t, err)
	assert.Empty(t, conds)
}

func TestParseContactFilter_Equality(t *testing.T) {
	conds, err := parseContactFilter("first_name__eq=John")
	require.NoError(t, err)
	require.Len(t, conds, 1)

	query, args := buildSQL(t, conds)
	assert.Contains(t, query, "first_name = $1")
	assert.Equal(t, []interface{}{"John"}, args)
}

func TestParseContactFilter_BareFieldDefaultsToEq(t *testing.T) {
	conds, err := parseContactFilter("email=a@b.com")
	require.NoError(t, err)
	require.Len(t, conds, 1)

	query, args := buildSQL(t, conds)
	assert.Contains(t, query, "email = $1")
	assert.Equal(t, []interface{}{"a@b.com"}, args)
}

func TestParseContactFilter_LikeTranslatesWildcard(t *testing.T) {
	conds, err := parseContactFilter("last_name__like=Sm*th")
	require.NoError(t, err)

	query, args := buildSQL(t, conds)
	assert.Contains(t, query, "last_name LIKE $1")
	assert.Equal(t, []interface{}{"Sm%th"}, args)
}

func TestParseContactFilter_StartswithAndContains(t *testing.T) {
	conds, err := parseContactFilter("first_name__startswith=Jo&last_name__contains=mit")
	require.NoError(t, err)
	require.Len(t, conds, 2)

	_, args := buildSQL(t, conds)
	assert.Equal(t, []interface{}{"Jo%", "%mit%"}, args)
}

func TestParseContactFilter_In(t *testing.T) {
	conds, err := parseContactFilter("first_name__in=John,Jane")
	require.NoError(t, err)

	query, args := buildSQL(t, conds)
	assert.Contains(t, query, "first_name IN ($1,$2)")
	assert.Equal(t, []interface{}{"John", "Jane"}, args)
}

func TestParseContactFilter_Between(t *testing.T) {
	conds, err := parseContactFilter("birthday__between=1990-01-01,1999-12-31")
	require.NoError(t, err)

	query, args := buildSQL(t, conds)
	assert.Contains(t, query, "birthday >= $1")
	assert.Contains(t, query, "birthday <= $2")
	assert.Equal(t, []interface{}{"1990-01-01", "1999-12-31"}, args)
}

func TestParseContactFilter_BetweenRequiresTwoValues(t *testing.T) {
	_, err := parseContactFilter("birthday__between=1990-01-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseContactFilter_DateComparisons(t *testing.T) {
	conds, err := parseContactFilter("created_at__gt=2024-01-01&updated_at__lt=2024-06-01")
	require.NoError(t, err)

	query, args := buildSQL(t, conds)
	assert.Contains(t, query, "created_at > $1")
	assert.Contains(t, query, "updated_at < $2")
	assert.Equal(t, []interface{}{"2024-01-01", "2024-06-01"}, args)
}

func TestParseContactFilter_RejectsUnknownField(t *testing.T) {
	_, err := parseContactFilter("nickname__eq=Jo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestParseContactFilter_RejectsDisallowedOperator(t *testing.T) {
	// like is a text operator; birthday only admits date operators.
	_, err := parseContactFilter("birthday__like=19*")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// gt is a date operator; first_name only admits text operators.
	_, err = parseContactFilter("first_name__gt=A")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseContactFilter_RejectsMalformedSegment(t *testing.T) {
	_, err := parseContactFilter("first_name__eq")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
