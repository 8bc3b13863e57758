// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// Commands capture what they need by value; they run outside Update.

func (m model) signIn(token string) tea.Cmd {
	ctx, auth := m.ctx, m.services.AuthService
	return func() tea.Msg {
		user, err := auth.SignIn(ctx, token)
		return signedInMsg{user: user, err: err}
	}
}

func (m model) loadTab(t tab) tea.Cmd {
	ctx := m.ctx
	discovery, library := m.services.DiscoveryService, m.services.LibraryService
	return func() tea.Msg {
		switch t {
		case tabSaved:
			quotes, err := library.SavedQuotes(ctx)
			return quotesLoadedMsg{tab: t, quotes: quotes, err: err}
		case tabCreated:
			quotes, err := library.CreatedQuotes(ctx)
			return quotesLoadedMsg{tab: t, quotes: quotes, err: err}
		default:
			return quotesLoadedMsg{tab: t, quotes: discovery.Explore(ctx, exploreLimit)}
		}
	}
}

func (m model) loadTags() tea.Cmd {
	ctx, discovery := m.ctx, m.services.DiscoveryService
	return func() tea.Msg {
		return tagsLoadedMsg{tags: discovery.Tags(ctx)}
	}
}

func (m model) randomQuote(tag string) tea.Cmd {
	ctx, discovery := m.ctx, m.services.DiscoveryService
	return func() tea.Msg {
		quote, ok := discovery.Random(ctx, tag)
		return randomQuoteMsg{quote: quote, ok: ok}
	}
}

func (m model) search(query, tag string) tea.Cmd {
	ctx, discovery := m.ctx, m.services.DiscoveryService
	return func() tea.Msg {
		quotes := discovery.Search(ctx, models.SearchParams{Query: query, Tag: tag, Limit: searchLimit})
		return quotesLoadedMsg{tab: tabExplore, quotes: quotes}
	}
}

func (m model) toggleLike(quoteID string) tea.Cmd {
	ctx, engagement := m.ctx, m.services.EngagementService
	return func() tea.Msg {
		liked, err := engagement.ToggleLike(ctx, quoteID)
		return toggledMsg{kind: metrics.ToggleLike, value: liked, err: err}
	}
}

func (m model) toggleSave(quote models.Quote) tea.Cmd {
	ctx, engagement := m.ctx, m.services.EngagementService
	return func() tea.Msg {
		saved, err := engagement.ToggleSave(ctx, quote)
		return toggledMsg{kind: metrics.ToggleSave, value: saved, err: err}
	}
}

func (m model) loadComments(quoteID string) tea.Cmd {
	ctx, engagement := m.ctx, m.services.EngagementService
	return func() tea.Msg {
		comments, err := engagement.Comments(ctx, quoteID)
		return commentsLoadedMsg{quoteID: quoteID, comments: comments, err: err}
	}
}

func (m model) addComment(quoteID, text string) tea.Cmd {
	ctx, engagement := m.ctx, m.services.EngagementService
	return func() tea.Msg {
		comment, err := engagement.AddComment(ctx, quoteID, text)
		return commentAddedMsg{comment: comment, err: err}
	}
}

func (m model) createQuote(content, author string) tea.Cmd {
	ctx, library := m.ctx, m.services.LibraryService
	return func() tea.Msg {
		quote, err := library.CreateQuote(ctx, content, author)
		return quoteCreatedMsg{quote: quote, err: err}
	}
}

func (m model) copyQuote(quote models.Quote) tea.Cmd {
	copyText := m.copyText
	return func() tea.Msg {
		return copiedMsg{err: copyText(fmt.Sprintf("%q - %s", quote.Content, quote.Author))}
	}
}
