package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "admin", input: "ADMIN", want: RoleAdmin},
		{name: "teacher lower case", input: "teacher", want: RoleTeacher},
		{name: "student with spaces", input: "  Student ", want: RoleStudent},
		{name: "unknown", input: "EDITOR", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRole)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_CanSignIn(t *testing.T) {
	assert.True(t, RoleAdmin.CanSignIn())
	assert.True(t, RoleTeacher.CanSignIn())
	assert.False(t, RoleStudent.CanSignIn())
	assert.False(t, Role{}.CanSignIn())
}

func TestRole_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{Role: RoleTeacher})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"TEACHER"}`, string(data))

	var dst struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"admin"}`), &dst))
	assert.Equal(t, RoleAdmin, dst.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"ROOT"}`), &dst))
}

func TestRole_ScanValue(t *testing.T) {
	var r Role
	require.NoError(t, r.Scan("STUDENT"))
	assert.Equal(t, RoleStudent, r)

	require.NoError(t, r.Scan([]byte("ADMIN")))
	assert.Equal(t, RoleAdmin, r)

	assert.Error(t, r.Scan(nil))
	assert.Error(t, r.Scan(42))

	v, err := RoleTeacher.Value()
	require.NoError(t, err)
	assert.Equal(t, "TEACHER", v)

	_, err = Role{}.Value()
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@uni.edu", NormalizeEmail("  Admin@UNI.edu "))
}

func TestUser_PublicHasNoHash(t *testing.T) {
	hash := "$2a$10$secret"
	u := &User{ID: "id-1", Email: "a@b.c", PasswordHash: &hash, Role: RoleAdmin, Active: true}

	data, err := json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
}
