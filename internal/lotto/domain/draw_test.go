package domain_test

import (
	"testing"

	"github.com/aussiebroadwan/lotto/internal/lotto/domain"
	"github.com/stretchr/testify/require"
)

func TestSelectionFormatting(t *testing.T) {
	numbers := []int{1, 2, 3, 4, 5, 6}
	s := domain.FormatSelection(numbers)
	require.Equal(t, "1 2 3 4 5 6", s)

	parsed, err := domain.ParseSelection(s)
	require.NoError(t, err)
	require.Equal(t, numbers, parsed)
}

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		wantErr bool
	}{
		{"valid", []int{1, 12, 23, 34, 45, 60}, false},
		{"too few", []int{1, 2, 3, 4, 5}, true},
		{"too many", []int{1, 2, 3, 4, 5, 6, 7}, true},
		{"zero", []int{0, 2, 3, 4, 5, 6}, true},
		{"above max", []int{1, 2, 3, 4, 5, 61}, true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateSelection(tt.numbers)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}

	_, err := domain.ParseSelection("1 2 three 4 5 6")
	require.Error(t, err)
}

func TestRoleSet(t *testing.T) {
	admins := domain.Roles(domain.RoleAdmin)
	require.True(t, admins.Contains(domain.RoleAdmin))
	require.False(t, admins.Contains(domain.RoleUser))
	require.False(t, domain.RoleSet(nil).Contains(domain.RoleUser))

	r, err := domain.ParseRole("admin")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, r)
	_, err = domain.ParseRole("root")
	require.Error(t, err)

	require.Equal(t, "admin", domain.RoleAdmin.Landing())
	require.Equal(t, "profile", domain.RoleUser.Landing())
}

func TestLoginSessionAttempts(t *testing.T) {
	s := domain.LoginSession{}
	require.Equal(t, 3, s.RemainingAttempts())
	require.False(t, s.LockedOut())

	s.FailedAttempts = 3
	require.True(t, s.LockedOut())
	require.Equal(t, 0, s.RemainingAttempts())

	s.FailedAttempts = 7
	require.Equal(t, 0, s.RemainingAttempts())
}
