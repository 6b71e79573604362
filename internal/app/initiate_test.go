package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcarehq/mindcare/internal/pkg/config"
)

func TestNewEnforcer(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte(`
authorization:
  roles:
    - "admin:member"
    - "broken"
  policies:
    - "admin:catalog:write"
    - "member:wellness:*"
    - "member::read"
`))
	require.NoError(t, err)

	e, err := newEnforcer(cfg)
	require.NoError(t, err)

	tests := []struct {
		sub, obj, act string
		want          bool
	}{
		{"admin", "catalog", "write", true},
		{"member", "catalog", "write", false},
		{"member", "wellness", "delete", true},
		{"admin", "wellness", "read", true},
		{"member", "", "read", false},
		{"guest", "catalog", "write", false},
	}

	for _, tt := range tests {
		t.Run(tt.sub+"/"+tt.obj+"/"+tt.act, func(t *testing.T) {
			ok, err := e.Enforce(tt.sub, tt.obj, tt.act)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestSplitRule(t *testing.T) {
	assert.Equal(t, []string{"admin", "catalog", "write"}, splitRule(" admin : catalog:write "))
	assert.Nil(t, splitRule("admin::write"))
	assert.Equal(t, []string{"solo"}, splitRule("solo"))
}
