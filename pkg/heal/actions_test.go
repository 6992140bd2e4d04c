package heal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/heal/pkg/heal"
	"github.com/entrhq/heal/pkg/heal/healtest"
)

func TestActionsResolveOnce(t *testing.T) {
	tests := []struct {
		name   string
		act    func(*heal.Locator, []string) error
		action string
	}{
		{
			name: "click",
			act: func(l *heal.Locator, c []string) error {
				return l.Click(context.Background(), c, heal.Options{Name: "Save"})
			},
			action: "click",
		},
		{
			name: "fill",
			act: func(l *heal.Locator, c []string) error {
				return l.Fill(context.Background(), c, "alice", heal.Options{Name: "Save"})
			},
			action: "fill:alice",
		},
		{
			name: "press",
			act: func(l *heal.Locator, c []string) error {
				return l.Press(context.Background(), c, "Enter", heal.Options{Name: "Save"})
			},
			action: "press:Enter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := healtest.NewPage()
			el := page.Add("#save-v2")

			loc, _ := newLocator(page)
			require.NoError(t, tt.act(loc, []string{"#save", "#save-v2", "#save-v3"}))

			assert.Equal(t, []string{tt.action}, el.Actions())
			assert.Equal(t, []string{"#save", "#save-v2"}, page.Queries())
			assert.Len(t, loc.Log(), 1)
		})
	}
}

func TestActionErrorPropagatesUnmodified(t *testing.T) {
	page := healtest.NewPage()
	el := page.Add("#stale")
	staleErr := errors.New("element is detached from the DOM")
	el.ActionErr = staleErr

	loc, _ := newLocator(page)
	err := loc.Click(context.Background(), []string{"#stale"}, heal.Options{})

	assert.Same(t, staleErr, err)
	assert.NotErrorIs(t, err, heal.ErrLocatorNotFound)
	assert.Len(t, loc.Log(), 1)
	assert.Equal(t, heal.ReasonSelector, loc.Log()[0].Reason)
}

func TestActionResolutionFailure(t *testing.T) {
	page := healtest.NewPage()
	loc, _ := newLocator(page)

	err := loc.Fill(context.Background(), []string{"#nope"}, "x", heal.Options{})
	var nf *heal.LocatorNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"#nope"}, nf.Tried)
}
