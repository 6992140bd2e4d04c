package heal_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/heal/pkg/heal"
	"github.com/entrhq/heal/pkg/heal/healtest"
)

var fixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newLocator(page heal.Page, opts ...heal.Option) (*heal.Locator, *healtest.Logger) {
	logger := &healtest.Logger{}
	opts = append([]heal.Option{
		heal.WithLogger(logger),
		heal.WithClock(func() time.Time { return fixedTime }),
	}, opts...)
	return heal.New(page, opts...), logger
}

func TestFindPrimaryFirstMatchWins(t *testing.T) {
	page := healtest.NewPage()
	page.Add("button.submit")
	page.Add("#submit-btn-v2")

	loc, _ := newLocator(page)
	el, err := loc.Find(context.Background(), []string{"#submit-btn", "button.submit", "#submit-btn-v2"}, heal.Options{})
	require.NoError(t, err)

	got := el.(*healtest.Element)
	assert.Equal(t, "button.submit", got.ID)

	log := loc.Log()
	require.Len(t, log, 1)
	assert.Equal(t, "button.submit", log[0].UsedSelector)
	assert.Equal(t, []string{"#submit-btn", "button.submit"}, log[0].TriedSelectors)
	assert.Equal(t, heal.ReasonSelector, log[0].Reason)
	assert.Equal(t, fixedTime, log[0].Time)
	assert.True(t, log[0].Healed())
}

func TestFindSubmitButtonScenario(t *testing.T) {
	page := healtest.NewPage()
	page.Add("button.submit")

	loc, _ := newLocator(page)
	el, err := loc.Find(context.Background(), []string{"#submit-btn", "button.submit"}, heal.Options{Name: "Submit"})
	require.NoError(t, err)
	assert.Equal(t, "button.submit", el.(*healtest.Element).ID)

	entry := loc.Log()[0]
	assert.Equal(t, "Submit", entry.Key)
	assert.Equal(t, "button.submit", entry.UsedSelector)
	assert.Equal(t, []string{"#submit-btn", "button.submit"}, entry.TriedSelectors)
}

func TestFindFirstCandidateIsNotHealed(t *testing.T) {
	page := healtest.NewPage()
	page.Add("#login")

	loc, _ := newLocator(page)
	_, err := loc.Find(context.Background(), []string{"#login", "button.login"}, heal.Options{})
	require.NoError(t, err)

	entry := loc.Log()[0]
	assert.True(t, entry.Found())
	assert.False(t, entry.Healed())
	assert.Equal(t, []string{"#login"}, page.Queries())
}

func TestFindReturnsFirstOfMultipleMatches(t *testing.T) {
	page := healtest.NewPage()
	page.Add("li.item", "first", "second", "third")

	loc, _ := newLocator(page)
	el, err := loc.Find(context.Background(), []string{"li.item"}, heal.Options{})
	require.NoError(t, err)
	assert.Equal(t, "first", el.(*healtest.Element).ID)
}

func TestFindHiddenElementIsStillAccepted(t *testing.T) {
	page := healtest.NewPage()
	hidden := page.Add("#spinner-btn")
	hidden.Hidden = true

	loc, logger := newLocator(page)
	el, err := loc.Find(context.Background(), []string{"#spinner-btn"}, heal.Options{Timeout: 150 * time.Millisecond})
	require.NoError(t, err)
	assert.Same(t, hidden, el)
	assert.Equal(t, []time.Duration{150 * time.Millisecond}, page.Waits())
	assert.Contains(t, logger.Lines[0], "not visible")
}

func TestFindUsesDefaultTimeout(t *testing.T) {
	page := healtest.NewPage()
	page.Add("#a")

	loc, _ := newLocator(page)
	_, err := loc.Find(context.Background(), []string{"#a"}, heal.Options{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{heal.DefaultTimeout}, page.Waits())
}

func TestFindSkipsQueryErrors(t *testing.T) {
	page := healtest.NewPage()
	page.FailQuery("div[[bad", errors.New("malformed selector"))
	page.Add("#ok")

	loc, _ := newLocator(page)
	el, err := loc.Find(context.Background(), []string{"div[[bad", "#ok"}, heal.Options{})
	require.NoError(t, err)
	assert.Equal(t, "#ok", el.(*healtest.Element).ID)
	assert.Equal(t, []string{"div[[bad", "#ok"}, loc.Log()[0].TriedSelectors)
}

func TestFindSkipsQueryErrorsInLaterPhases(t *testing.T) {
	d := heal.PlaywrightDialect{}
	textSel := d.ExactText("Sign In")
	button := d.ButtonText("Sign In")
	link := d.LinkText("Sign In")
	node := d.NormalizedText("Sign In")
	broken := errors.New("selector engine crashed")

	tests := []struct {
		name   string
		failed []string
		add    []string
		want   string
		tried  []string
	}{
		{
			name:   "text fallback and button fail, link wins",
			failed: []string{textSel, button},
			add:    []string{link, node},
			want:   link,
			tried:  []string{"#missing", textSel, button, link},
		},
		{
			name:   "button and link fail, text node wins",
			failed: []string{textSel, button, link},
			add:    []string{node},
			want:   node,
			tried:  []string{"#missing", textSel, button, link, node},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := healtest.NewPage()
			for _, sel := range tt.failed {
				page.FailQuery(sel, broken)
			}
			for _, sel := range tt.add {
				page.Add(sel)
			}

			loc, logger := newLocator(page)
			el, err := loc.Find(context.Background(), []string{"#missing"}, heal.Options{Name: "Sign In", TextFallback: "Sign In"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, el.(*healtest.Element).ID)

			entry := loc.Log()[0]
			assert.Equal(t, tt.want, entry.UsedSelector)
			assert.Equal(t, heal.ReasonHeuristics, entry.Reason)
			assert.Equal(t, tt.tried, entry.TriedSelectors)
			assert.Equal(t, tt.tried, page.Queries())

			skipped := 0
			for _, line := range logger.Lines {
				if strings.Contains(line, "selector engine crashed") {
					skipped++
				}
			}
			assert.Equal(t, len(tt.failed), skipped)
		})
	}
}

func TestFindTextFallback(t *testing.T) {
	page := healtest.NewPage()
	textSel := heal.PlaywrightDialect{}.ExactText("Sign In")
	page.Add(textSel)

	loc, _ := newLocator(page)
	el, err := loc.Find(context.Background(), []string{"#missing"}, heal.Options{TextFallback: "Sign In"})
	require.NoError(t, err)
	assert.Equal(t, textSel, el.(*healtest.Element).ID)

	entry := loc.Log()[0]
	assert.Equal(t, `text="Sign In"`, entry.UsedSelector)
	assert.Equal(t, []string{"#missing", `text="Sign In"`}, entry.TriedSelectors)
	assert.Equal(t, heal.ReasonTextFallback, entry.Reason)
	assert.True(t, entry.Healed())
	assert.Empty(t, page.Waits(), "text fallback does not wait for visibility")
}

func TestFindHeuristicsOrder(t *testing.T) {
	d := heal.PlaywrightDialect{}

	tests := []struct {
		name    string
		present []string
		want    string
		tried   int
	}{
		{
			name:    "button wins over link and text node",
			present: []string{d.ButtonText("Submit"), d.LinkText("Submit"), d.NormalizedText("Submit")},
			want:    d.ButtonText("Submit"),
			tried:   1,
		},
		{
			name:    "link when no button",
			present: []string{d.LinkText("Submit"), d.NormalizedText("Submit")},
			want:    d.LinkText("Submit"),
			tried:   2,
		},
		{
			name:    "normalized text node last",
			present: []string{d.NormalizedText("Submit")},
			want:    d.NormalizedText("Submit"),
			tried:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := healtest.NewPage()
			for _, sel := range tt.present {
				page.Add(sel)
			}

			loc, _ := newLocator(page)
			el, err := loc.Find(context.Background(), nil, heal.Options{Name: "Submit"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, el.(*healtest.Element).ID)

			entry := loc.Log()[0]
			assert.Equal(t, tt.want, entry.UsedSelector)
			assert.Equal(t, heal.ReasonHeuristics, entry.Reason)
			assert.Len(t, entry.TriedSelectors, tt.tried)
		})
	}
}

func TestFindButtonHeuristicScenario(t *testing.T) {
	page := healtest.NewPage()
	page.Add(`button:has-text("Submit")`)

	loc, _ := newLocator(page)
	_, err := loc.Find(context.Background(), []string{}, heal.Options{Name: "Submit"})
	require.NoError(t, err)

	entry := loc.Log()[0]
	assert.Equal(t, `button:has-text("Submit")`, entry.UsedSelector)
	assert.Len(t, entry.TriedSelectors, 1)
}

func TestFindNotFoundTriesEveryPhase(t *testing.T) {
	tests := []struct {
		name      string
		cands     []string
		opts      heal.Options
		wantTried int
	}{
		{name: "primary only", cands: []string{"#a", "#b"}, wantTried: 2},
		{name: "with text fallback", cands: []string{"#a"}, opts: heal.Options{TextFallback: "Go"}, wantTried: 2},
		{name: "with name", cands: []string{"#a", "#b"}, opts: heal.Options{Name: "Go"}, wantTried: 5},
		{name: "all phases", cands: []string{"#a", "#b", "#c"}, opts: heal.Options{Name: "Go", TextFallback: "Go!"}, wantTried: 7},
		{name: "nothing to try", cands: nil, wantTried: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := healtest.NewPage()
			loc, logger := newLocator(page)

			el, err := loc.Find(context.Background(), tt.cands, tt.opts)
			assert.Nil(t, el)
			require.Error(t, err)

			var nf *heal.LocatorNotFoundError
			require.ErrorAs(t, err, &nf)
			assert.ErrorIs(t, err, heal.ErrLocatorNotFound)
			assert.Len(t, nf.Tried, tt.wantTried)
			assert.Equal(t, page.Queries(), nf.Tried)
			for _, sel := range nf.Tried {
				assert.Contains(t, err.Error(), sel)
			}

			log := loc.Log()
			require.Len(t, log, 1)
			assert.Equal(t, "", log[0].UsedSelector)
			assert.Equal(t, heal.ReasonNotFound, log[0].Reason)
			assert.Equal(t, nf.Tried, log[0].TriedSelectors)
			assert.NotNil(t, log[0].TriedSelectors)
			assert.False(t, log[0].Healed())

			require.NotEmpty(t, logger.Lines)
			assert.Contains(t, logger.Lines[len(logger.Lines)-1], "NOT_FOUND")
		})
	}
}

func TestFindNotFoundMessageOrder(t *testing.T) {
	loc, _ := newLocator(healtest.NewPage())
	_, err := loc.Find(context.Background(), []string{"#one", "#two"}, heal.Options{Name: "Login"})
	require.Error(t, err)
	assert.Equal(t,
		`Login: element not found. Tried selectors: #one | #two | button:has-text("Login") | a:has-text("Login") | //*[normalize-space(text())="Login"]`,
		err.Error())
}

func TestFindCanceledContext(t *testing.T) {
	page := healtest.NewPage()
	page.Add("#a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loc, _ := newLocator(page)
	_, err := loc.Find(ctx, []string{"#a"}, heal.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, heal.ErrLocatorNotFound)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, loc.Log(), 1)
}

func TestFindIdempotent(t *testing.T) {
	page := healtest.NewPage()
	page.Add("button.submit")

	loc, _ := newLocator(page)
	cands := []string{"#submit-btn", "button.submit"}
	opts := heal.Options{Name: "Submit", TextFallback: "Submit"}

	_, err := loc.Find(context.Background(), cands, opts)
	require.NoError(t, err)
	_, err = loc.Find(context.Background(), cands, opts)
	require.NoError(t, err)

	log := loc.Log()
	require.Len(t, log, 2)
	assert.Equal(t, log[0].UsedSelector, log[1].UsedSelector)
	assert.Equal(t, log[0].TriedSelectors, log[1].TriedSelectors)
}

func TestLedgerLengthMatchesCalls(t *testing.T) {
	page := healtest.NewPage()
	page.Add("#present")

	loc, _ := newLocator(page)
	ctx := context.Background()
	calls := [][]string{{"#present"}, {"#absent"}, {"#absent", "#present"}, {}}
	for _, c := range calls {
		_, _ = loc.Find(ctx, c, heal.Options{})
	}

	log := loc.Log()
	require.Len(t, log, len(calls))
	assert.Equal(t, []string{heal.ReasonSelector, heal.ReasonNotFound, heal.ReasonSelector, heal.ReasonNotFound},
		[]string{log[0].Reason, log[1].Reason, log[2].Reason, log[3].Reason})
}

func TestLogIsSnapshot(t *testing.T) {
	page := healtest.NewPage()
	page.Add("#a")

	loc, _ := newLocator(page)
	_, err := loc.Find(context.Background(), []string{"#a"}, heal.Options{})
	require.NoError(t, err)

	snap := loc.Log()
	snap[0].UsedSelector = "mutated"
	snap[0].TriedSelectors[0] = "mutated"

	fresh := loc.Log()
	assert.Equal(t, "#a", fresh[0].UsedSelector)
	assert.Equal(t, []string{"#a"}, fresh[0].TriedSelectors)
}

func TestWithXPathDialect(t *testing.T) {
	page := healtest.NewPage()
	page.Add(`//a[normalize-space(.)="Profile"]`)

	loc, _ := newLocator(page, heal.WithDialect(heal.XPathDialect{}))
	_, err := loc.Find(context.Background(), []string{"#profile"}, heal.Options{Name: "Profile", TextFallback: "Profile"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"#profile",
		`//*[text()="Profile"]`,
		`//button[normalize-space(.)="Profile"]`,
		`//a[normalize-space(.)="Profile"]`,
	}, loc.Log()[0].TriedSelectors)
}
