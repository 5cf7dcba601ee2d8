package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalh2/godgraceenterprise/internal/models"
	"github.com/jalh2/godgraceenterprise/pkg/crypto"
)

func newRegistration() *models.StaffRegistration {
	return &models.StaffRegistration{
		Email:      "j.doe@godgrace.example",
		Username:   "jdoe",
		Password:   "s3cret-enough",
		Role:       models.RoleLoanOfficer,
		BranchName: "Monrovia Central",
		BranchCode: "MON-01",
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	env := newTestEnv()
	svc := NewStaffService(env.deps)

	staff, err := svc.Register(context.Background(), newRegistration())
	require.NoError(t, err)

	assert.NotEmpty(t, staff.PassHash)
	assert.NotEqual(t, "s3cret-enough", staff.PassHash)
	assert.True(t, crypto.NewPasswordHasher().CheckPasswordHash("s3cret-enough", staff.PassHash))
}

func TestRegister_RejectsInvalidPayload(t *testing.T) {
	env := newTestEnv()
	svc := NewStaffService(env.deps)

	reg := newRegistration()
	reg.Password = "short"
	_, err := svc.Register(context.Background(), reg)
	assert.EqualError(t, err, "password must be at least 8 characters")

	reg = newRegistration()
	reg.Role = "janitor"
	_, err = svc.Register(context.Background(), reg)
	assert.EqualError(t, err, "invalid role")
}

func TestIdentify_PrefersEmail(t *testing.T) {
	env := newTestEnv()
	svc := NewStaffService(env.deps)

	registered, err := svc.Register(context.Background(), newRegistration())
	require.NoError(t, err)

	byEmail, err := svc.Identify(context.Background(), registered.Email, "")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, byEmail.ID)

	byUsername, err := svc.Identify(context.Background(), "", registered.Username)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, byUsername.ID)

	_, err = svc.Identify(context.Background(), "", "")
	assert.EqualError(t, err, "no identity provided")
}

func TestStaffPermissions(t *testing.T) {
	tests := []struct {
		role       models.StaffRole
		restricted bool
		approves   bool
	}{
		{models.RoleAdmin, false, true},
		{models.RoleBranchManager, false, true},
		{models.RoleLoanOfficer, true, false},
		{models.RoleFieldAgent, true, false},
	}

	for _, tt := range tests {
		staff := &models.Staff{Role: tt.role}
		assert.Equal(t, tt.restricted, staff.IsRestricted(), string(tt.role))
		assert.Equal(t, tt.approves, staff.CanApprove(), string(tt.role))
	}

	// Absent identity is unrestricted.
	var anon *models.Staff
	assert.False(t, anon.IsRestricted())
	assert.True(t, anon.CanApprove())
}
