// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	user    *models.User
	signErr error
}

func (a *fakeAuth) SignIn(_ context.Context, token string) (models.User, error) {
	if a.signErr != nil {
		return models.User{}, a.signErr
	}
	a.user = &models.User{ID: "u-" + token, Username: "Alice"}
	return *a.user, nil
}

func (a *fakeAuth) SignOut(context.Context) { a.user = nil }

func (a *fakeAuth) CurrentUser() (models.User, bool) {
	if a.user == nil {
		return models.User{}, false
	}
	return *a.user, true
}

type fakeEngagement struct {
	service.EngagementService

	watched   []string
	unwatched []string
	cached    map[string]models.QuoteMeta
	likeErr   error
	liked     bool
	comments  []models.Comment
	posted    []string
}

func (e *fakeEngagement) Watch(quoteID string) error {
	e.watched = append(e.watched, quoteID)
	return nil
}

func (e *fakeEngagement) Unwatch(quoteID string) { e.unwatched = append(e.unwatched, quoteID) }

func (e *fakeEngagement) Meta(quoteID string) (models.QuoteMeta, bool) {
	meta, ok := e.cached[quoteID]
	return meta, ok
}

func (e *fakeEngagement) ToggleLike(context.Context, string) (bool, error) {
	if e.likeErr != nil {
		return false, e.likeErr
	}
	e.liked = !e.liked
	return e.liked, nil
}

func (e *fakeEngagement) AddComment(_ context.Context, quoteID, text string) (models.Comment, error) {
	e.posted = append(e.posted, text)
	c := models.Comment{ID: fmt.Sprint(len(e.posted)), QuoteID: quoteID, Username: "Alice", Text: text}
	e.comments = append([]models.Comment{c}, e.comments...)
	return c, nil
}

func (e *fakeEngagement) Comments(context.Context, string) ([]models.Comment, error) {
	return e.comments, nil
}

type fakeLibrary struct {
	service.LibraryService
}

func (fakeLibrary) SavedQuotes(context.Context) ([]models.Quote, error) {
	return nil, fmt.Errorf("%w: guest", service.ErrNotAuthenticated)
}

type fakeDiscovery struct {
	service.DiscoveryService
	quotes []models.Quote
}

func (d fakeDiscovery) Explore(context.Context, int) []models.Quote { return d.quotes }

func (d fakeDiscovery) Random(context.Context, string) (models.Quote, bool) {
	if len(d.quotes) == 0 {
		return models.Quote{}, false
	}
	return d.quotes[len(d.quotes)-1], true
}

var testQuotes = []models.Quote{
	{ID: "q1", Content: "Stay hungry.", Author: "Steve Jobs"},
	{ID: "q2", Content: "Less is more.", Author: "Mies"},
}

type fixture struct {
	auth       *fakeAuth
	engagement *fakeEngagement
	copied     []string
	m          model
}

func newFixture(t *testing.T, user *models.User) *fixture {
	t.Helper()
	f := &fixture{
		auth:       &fakeAuth{user: user},
		engagement: &fakeEngagement{cached: map[string]models.QuoteMeta{}},
	}
	services := &service.ClientServices{
		AuthService:       f.auth,
		EngagementService: f.engagement,
		LibraryService:    fakeLibrary{},
		DiscoveryService:  fakeDiscovery{quotes: testQuotes},
	}
	f.m = newModel(context.Background(), services, models.NewAppBuildInfo("1.0.0", "", ""), func(s string) error {
		f.copied = append(f.copied, s)
		return nil
	})
	return f
}

// send feeds msg to the model and returns the command it produced.
func (f *fixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.m.Update(msg)
	f.m = next.(model)
	return cmd
}

// run executes cmd and feeds its message back.
func (f *fixture) run(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	return f.send(cmd())
}

func keyRune(r string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func (f *fixture) loadExplore(t *testing.T) {
	t.Helper()
	f.run(t, f.m.loadTab(tabExplore))
	require.Len(t, f.m.list.Items(), len(testQuotes))
}

func TestModel_GuestStartsOnSignIn(t *testing.T) {
	f := newFixture(t, nil)
	require.Equal(t, screenSignIn, f.m.screen)

	f.send(keyEnter)

	assert.Equal(t, screenBrowse, f.m.screen)
	assert.Equal(t, "browsing as guest", f.m.status)
}

func TestModel_SignIn(t *testing.T) {
	f := newFixture(t, nil)
	f.m.inputs[0].SetValue("  tok  ")

	cmd := f.send(keyEnter)
	assert.True(t, f.m.busy)
	f.run(t, cmd)

	assert.Equal(t, screenBrowse, f.m.screen)
	assert.Equal(t, "signed in as Alice", f.m.status)
	assert.Equal(t, "u-tok", f.auth.user.ID)
}

func TestModel_SignInFailureStays(t *testing.T) {
	f := newFixture(t, nil)
	f.auth.signErr = service.ErrInvalidToken
	f.m.inputs[0].SetValue("bad")

	f.run(t, f.send(keyEnter))

	assert.Equal(t, screenSignIn, f.m.screen)
	assert.Contains(t, f.m.errMsg, "sign-in failed")
	assert.False(t, f.m.busy)
}

func TestModel_SignedInStartsOnBrowse(t *testing.T) {
	f := newFixture(t, &models.User{ID: "u1"})

	assert.Equal(t, screenBrowse, f.m.screen)
}

func TestModel_OpenDetailWatchesAndReleases(t *testing.T) {
	f := newFixture(t, &models.User{ID: "u1", Username: "Alice"})
	f.loadExplore(t)

	cmd := f.send(keyEnter)
	require.Equal(t, screenDetail, f.m.screen)
	assert.Equal(t, []string{"q1"}, f.engagement.watched)
	assert.False(t, f.m.metaLoaded)
	assert.Contains(t, f.m.View(), "loading likes and comments")

	f.run(t, cmd)

	f.send(metaUpdatedMsg{quoteID: "q1", meta: models.QuoteMeta{ID: "q1", LikeCount: 2, LikedBy: []string{"u1", "u2"}, CommentCount: 1}})
	require.True(t, f.m.metaLoaded)
	view := f.m.View()
	assert.Contains(t, view, "2 likes (you)")
	assert.Contains(t, view, "1 comment")

	f.send(keyEsc)
	assert.Equal(t, screenBrowse, f.m.screen)
	assert.Equal(t, []string{"q1"}, f.engagement.unwatched)
}

func TestModel_CachedMetaShownImmediately(t *testing.T) {
	f := newFixture(t, nil)
	f.send(keyEsc)
	f.engagement.cached["q1"] = models.QuoteMeta{ID: "q1", LikeCount: 5}
	f.loadExplore(t)

	f.send(keyEnter)

	assert.True(t, f.m.metaLoaded)
	assert.Contains(t, f.m.View(), "5 likes")
}

func TestModel_IgnoresUpdatesForOtherQuotes(t *testing.T) {
	f := newFixture(t, &models.User{ID: "u1"})
	f.loadExplore(t)
	f.send(keyEnter)

	f.send(metaUpdatedMsg{quoteID: "q2", meta: models.QuoteMeta{ID: "q2", LikeCount: 9}})

	assert.False(t, f.m.metaLoaded)
}

func TestModel_ToggleLike(t *testing.T) {
	f := newFixture(t, &models.User{ID: "u1"})
	f.loadExplore(t)
	f.send(keyEnter)

	f.run(t, f.send(keyRune("l")))
	assert.Equal(t, "liked", f.m.status)

	f.run(t, f.send(keyRune("l")))
	assert.Equal(t, "like removed", f.m.status)
	assert.False(t, f.m.busy)
}

func TestModel_ToggleLikeAsGuest(t *testing.T) {
	f := newFixture(t, nil)
	f.send(keyEsc)
	f.engagement.likeErr = fmt.Errorf("%w: %w", service.ErrNotAuthenticated, service.ErrValidation)
	f.loadExplore(t)
	f.send(keyEnter)

	f.run(t, f.send(keyRune("l")))

	assert.Equal(t, "sign in to like, save or comment", f.m.errMsg)
}

func TestModel_Comment(t *testing.T) {
	f := newFixture(t, &models.User{ID: "u1", Username: "Alice"})
	f.loadExplore(t)
	f.send(keyEnter)
	f.send(metaUpdatedMsg{quoteID: "q1", meta: models.NewQuoteMeta("q1")})

	f.send(keyRune("c"))
	require.Equal(t, screenComment, f.m.screen)
	f.m.inputs[0].SetValue("Great quote")

	reload := f.run(t, f.send(keyEnter))
	assert.Equal(t, screenDetail, f.m.screen)
	assert.Equal(t, []string{"Great quote"}, f.engagement.posted)

	f.run(t, reload)
	require.Len(t, f.m.comments, 1)
	assert.Contains(t, f.m.View(), "Alice")
}

func TestModel_CommentAsGuestBlocked(t *testing.T) {
	f := newFixture(t, nil)
	f.send(keyEsc)
	f.loadExplore(t)
	f.send(keyEnter)

	f.send(keyRune("c"))

	assert.Equal(t, screenDetail, f.m.screen)
	assert.Equal(t, "sign in to comment", f.m.errMsg)
}

func TestModel_Copy(t *testing.T) {
	f := newFixture(t, &models.User{ID: "u1"})
	f.loadExplore(t)
	f.send(keyEnter)

	f.run(t, f.send(keyRune("y")))

	assert.Equal(t, []string{`"Stay hungry." - Steve Jobs`}, f.copied)
	assert.Equal(t, "quote copied to clipboard", f.m.status)
}

func TestModel_RandomOpensDetail(t *testing.T) {
	f := newFixture(t, &models.User{ID: "u1"})

	f.run(t, f.send(keyRune("r")))

	assert.Equal(t, screenDetail, f.m.screen)
	assert.Equal(t, "q2", f.m.current.ID)
}

func TestModel_SavedTabAsGuest(t *testing.T) {
	f := newFixture(t, nil)
	f.send(keyEsc)

	f.run(t, f.send(keyTab))

	assert.Equal(t, tabSaved, f.m.tab)
	assert.Equal(t, "sign in to like, save or comment", f.m.errMsg)
	assert.Empty(t, f.m.list.Items())
}

func TestModel_QuitReleasesWatch(t *testing.T) {
	f := newFixture(t, &models.User{ID: "u1"})
	f.loadExplore(t)
	f.send(keyEnter)

	cmd := f.send(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, []string{"q1"}, f.engagement.unwatched)
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "metadata store unavailable, try again", describeError(fmt.Errorf("%w: x", service.ErrStoreUnavailable)))
	assert.Equal(t, "boom", describeError(errors.New("boom")))
}

func TestFitText(t *testing.T) {
	assert.Equal(t, "short", fitText("short", 10))
	assert.Equal(t, "abcdefg...", fitText("abcdefghijklmnop", 10))
}
