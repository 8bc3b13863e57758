// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenSignIn screen = iota
	screenBrowse
	screenDetail
	screenComment
	screenNewQuote
	screenSearch
)

type tab int

const (
	tabExplore tab = iota
	tabSaved
	tabCreated
)

var tabNames = [...]string{"Explore", "Saved", "Created"}

func (t tab) String() string { return tabNames[t] }

const (
	exploreLimit   = 20
	searchLimit    = 20
	listWidth      = 80
	listHeight     = 20
	shownComments  = 10
	quoteTitleSize = 72
)

// quoteItem adapts a quote to bubbles/list.
type quoteItem struct{ quote models.Quote }

func (i quoteItem) Title() string       { return fitText(i.quote.Content, quoteTitleSize) }
func (i quoteItem) Description() string { return i.quote.Author }
func (i quoteItem) FilterValue() string { return i.quote.Content + " " + i.quote.Author }

type model struct {
	ctx       context.Context
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	copyText  func(string) error

	screen screen
	tab    tab
	list   list.Model

	tags   []models.Tag
	tagIdx int

	current    models.Quote
	watching   bool
	meta       models.QuoteMeta
	metaLoaded bool
	comments   []models.Comment

	inputs []textinput.Model
	focus  int
	busy   bool

	status string
	errMsg string
}

func newModel(ctx context.Context, services *service.ClientServices, buildInfo models.AppBuildInfo, copyText func(string) error) model {
	l := list.New(nil, list.NewDefaultDelegate(), listWidth, listHeight)
	l.Title = tabExplore.String()
	l.DisableQuitKeybindings()
	l.SetShowHelp(false)

	m := model{
		ctx:       ctx,
		services:  services,
		buildInfo: buildInfo,
		copyText:  copyText,
		screen:    screenBrowse,
		list:      l,
		tagIdx:    -1,
	}

	if _, ok := services.AuthService.CurrentUser(); !ok {
		m.screen = screenSignIn
		m.inputs = []textinput.Model{newInput("identity token", true)}
		m.inputs[0].Focus()
	}

	return m
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 4096
	in.Width = listWidth - 4
	if secret {
		in.EchoMode = textinput.EchoPassword
	}
	return in
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadTags(), m.loadTab(tabExplore))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.quit) {
			m.releaseCurrent()
			return m, tea.Quit
		}
		return m.updateKey(msg)

	case metaUpdatedMsg:
		if m.watching && msg.quoteID == m.current.ID {
			m.meta = msg.meta
			m.metaLoaded = true
		}
		return m, nil

	case signedInMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = "sign-in failed: " + msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.status = "signed in as " + displayName(msg.user)
		m.screen = screenBrowse
		return m, m.loadTab(m.tab)

	case quotesLoadedMsg:
		if msg.tab != m.tab {
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = describeError(msg.err)
		}
		return m, m.setQuotes(msg.quotes)

	case tagsLoadedMsg:
		m.tags = msg.tags
		return m, nil

	case randomQuoteMsg:
		if !msg.ok {
			m.errMsg = "no random quote available right now"
			return m, nil
		}
		return m, m.openDetail(msg.quote)

	case toggledMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = describeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = toggleStatus(msg.kind, msg.value)
		if msg.kind == metrics.ToggleSave && m.tab == tabSaved {
			return m, m.loadTab(tabSaved)
		}
		return m, nil

	case commentsLoadedMsg:
		if msg.quoteID != m.current.ID {
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = describeError(msg.err)
			return m, nil
		}
		m.comments = msg.comments
		return m, nil

	case commentAddedMsg:
		m.busy = false
		if msg.err != nil && !errors.Is(msg.err, service.ErrCommentCountNotUpdated) {
			m.errMsg = describeError(msg.err)
			return m, nil
		}
		m.screen = screenDetail
		m.errMsg = ""
		m.status = "comment posted"
		return m, m.loadComments(m.current.ID)

	case quoteCreatedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = describeError(msg.err)
			return m, nil
		}
		m.screen = screenBrowse
		m.errMsg = ""
		m.status = "quote created"
		m.tab = tabCreated
		m.list.Title = m.tab.String()
		return m, m.loadTab(tabCreated)

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "quote copied to clipboard"
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenSignIn:
		return m.updateSignIn(msg)
	case screenBrowse:
		return m.updateBrowse(msg)
	case screenDetail:
		return m.updateDetail(msg)
	case screenComment:
		return m.updateComment(msg)
	case screenNewQuote:
		return m.updateNewQuote(msg)
	case screenSearch:
		return m.updateSearch(msg)
	}
	return m, nil
}

// updateFocused forwards non-key messages such as cursor blinks.
func (m model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.screen == screenBrowse {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, m.updateInputs(msg)
}

func (m *model) updateInputs(msg tea.Msg) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m model) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.busy:
		return m, nil
	case key.Matches(msg, keys.esc):
		m.screen = screenBrowse
		m.status = "browsing as guest"
		return m, nil
	case key.Matches(msg, keys.enter):
		token := strings.TrimSpace(m.inputs[0].Value())
		if token == "" {
			m.screen = screenBrowse
			m.status = "browsing as guest"
			return m, nil
		}
		m.busy = true
		return m, m.signIn(token)
	}
	return m, m.updateInputs(msg)
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.enter):
		item, ok := m.list.SelectedItem().(quoteItem)
		if !ok {
			return m, nil
		}
		return m, m.openDetail(item.quote)
	case key.Matches(msg, keys.tab):
		m.tab = (m.tab + 1) % tab(len(tabNames))
		m.list.Title = m.tab.String()
		m.errMsg = ""
		return m, m.loadTab(m.tab)
	case key.Matches(msg, keys.random):
		return m, m.randomQuote(m.currentTag())
	case key.Matches(msg, keys.tag):
		m.nextTag()
		return m, nil
	case key.Matches(msg, keys.search):
		m.screen = screenSearch
		m.inputs = []textinput.Model{newInput("search quotes", false)}
		m.focus = 0
		return m, m.inputs[0].Focus()
	case key.Matches(msg, keys.newItem):
		if _, ok := m.services.AuthService.CurrentUser(); !ok {
			m.errMsg = "sign in to create quotes"
			return m, nil
		}
		m.screen = screenNewQuote
		m.inputs = []textinput.Model{newInput("quote", false), newInput("author (optional)", false)}
		m.focus = 0
		return m, m.inputs[0].Focus()
	case key.Matches(msg, keys.signOut):
		m.services.AuthService.SignOut(m.ctx)
		m.screen = screenSignIn
		m.status = "signed out"
		m.inputs = []textinput.Model{newInput("identity token", true)}
		m.focus = 0
		return m, m.inputs[0].Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.releaseCurrent()
		m.screen = screenBrowse
		return m, nil
	case m.busy:
		return m, nil
	case key.Matches(msg, keys.like):
		m.busy = true
		return m, m.toggleLike(m.current.ID)
	case key.Matches(msg, keys.save):
		m.busy = true
		return m, m.toggleSave(m.current)
	case key.Matches(msg, keys.comment):
		if _, ok := m.services.AuthService.CurrentUser(); !ok {
			m.errMsg = "sign in to comment"
			return m, nil
		}
		m.screen = screenComment
		m.inputs = []textinput.Model{newInput("your comment", false)}
		m.focus = 0
		return m, m.inputs[0].Focus()
	case key.Matches(msg, keys.copy):
		return m, m.copyQuote(m.current)
	}
	return m, nil
}

func (m model) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenDetail
		return m, nil
	case m.busy:
		return m, nil
	case key.Matches(msg, keys.enter):
		m.busy = true
		return m, m.addComment(m.current.ID, m.inputs[0].Value())
	}
	return m, m.updateInputs(msg)
}

func (m model) updateNewQuote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenBrowse
		return m, nil
	case m.busy:
		return m, nil
	case key.Matches(msg, keys.tab), key.Matches(msg, keys.enter) && m.focus == 0:
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()
	case key.Matches(msg, keys.enter):
		m.busy = true
		return m, m.createQuote(m.inputs[0].Value(), m.inputs[1].Value())
	}
	return m, m.updateInputs(msg)
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenBrowse
		return m, nil
	case key.Matches(msg, keys.enter):
		query := strings.TrimSpace(m.inputs[0].Value())
		m.screen = screenBrowse
		m.tab = tabExplore
		m.list.Title = fmt.Sprintf("Search: %s", query)
		return m, m.search(query, m.currentTag())
	}
	return m, m.updateInputs(msg)
}

// openDetail watches quote for as long as the detail pane shows it.
func (m *model) openDetail(quote models.Quote) tea.Cmd {
	m.releaseCurrent()

	m.current = quote
	m.screen = screenDetail
	m.comments = nil
	m.errMsg = ""
	m.status = ""

	if err := m.services.EngagementService.Watch(quote.ID); err != nil {
		m.errMsg = describeError(err)
		return nil
	}
	m.watching = true
	m.meta, m.metaLoaded = m.services.EngagementService.Meta(quote.ID)

	return m.loadComments(quote.ID)
}

func (m *model) releaseCurrent() {
	if m.watching {
		m.services.EngagementService.Unwatch(m.current.ID)
	}
	m.watching = false
	m.metaLoaded = false
	m.meta = models.QuoteMeta{}
}

func (m *model) setQuotes(quotes []models.Quote) tea.Cmd {
	items := make([]list.Item, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, quoteItem{quote: q})
	}
	return m.list.SetItems(items)
}

func (m *model) nextTag() {
	if len(m.tags) == 0 {
		m.status = "no tags loaded"
		return
	}
	m.tagIdx++
	if m.tagIdx >= len(m.tags) {
		m.tagIdx = -1
	}
	if tag := m.currentTag(); tag != "" {
		m.status = "tag: " + tag
	} else {
		m.status = "tag: any"
	}
}

func (m model) currentTag() string {
	if m.tagIdx < 0 || m.tagIdx >= len(m.tags) {
		return ""
	}
	return m.tags[m.tagIdx].Name
}

func displayName(user models.User) string {
	if user.Username != "" {
		return user.Username
	}
	return user.ID
}

func toggleStatus(kind string, value bool) string {
	switch {
	case kind == metrics.ToggleLike && value:
		return "liked"
	case kind == metrics.ToggleLike:
		return "like removed"
	case value:
		return "saved"
	default:
		return "removed from saved"
	}
}

// describeError turns service errors into short messages for the status
// line.
func describeError(err error) string {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return "sign in to like, save or comment"
	case errors.Is(err, service.ErrValidation):
		return err.Error()
	case errors.Is(err, service.ErrStoreUnavailable):
		return "metadata store unavailable, try again"
	case errors.Is(err, service.ErrSnapshotNotUpdated):
		return "done, but the local copy was not updated"
	}
	return err.Error()
}
