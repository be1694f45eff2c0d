package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_Session(t *testing.T) {
	p := NewStaticProvider(User{Name: "Dana Reyes", Email: "dana@example.com"}, "tok")

	s, err := p.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", s.User.Name)
	assert.Equal(t, "tok", s.Token)
}

func TestStaticProvider_nil(t *testing.T) {
	var p *StaticProvider

	_, err := p.Session(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}
