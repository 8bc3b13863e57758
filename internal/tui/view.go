// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch m.screen {
	case screenSignIn:
		b.WriteString(m.signInView())
	case screenBrowse:
		b.WriteString(m.browseView())
	case screenDetail:
		b.WriteString(m.detailView())
	case screenComment:
		b.WriteString(m.detailView())
		b.WriteString("\n\nComment:\n")
		b.WriteString(m.inputs[0].View())
	case screenNewQuote:
		b.WriteString(titleStyle.Render("New quote"))
		b.WriteString("\n\n")
		for _, in := range m.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
	case screenSearch:
		b.WriteString(titleStyle.Render("Search"))
		b.WriteString("\n\n")
		b.WriteString(m.inputs[0].View())
	}

	b.WriteString("\n\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))

	return appStyle.Render(b.String())
}

func (m model) header() string {
	who := "guest"
	if user, ok := m.services.AuthService.CurrentUser(); ok {
		who = displayName(user)
	}
	return titleStyle.Render("Quote Keeper") + helpStyle.Render(fmt.Sprintf("  %s  |  %s", who, m.buildInfo.BuildVersion()))
}

func (m model) signInView() string {
	var b strings.Builder
	b.WriteString("Paste the identity token from your sign-in provider,\n")
	b.WriteString("or leave it empty to browse as a guest.\n\n")
	b.WriteString(m.inputs[0].View())
	if m.busy {
		b.WriteString("\n\nsigning in...")
	}
	return b.String()
}

func (m model) browseView() string {
	var tabs []string
	for i, name := range tabNames {
		if tab(i) == m.tab {
			tabs = append(tabs, activeTab.Render(name))
		} else {
			tabs = append(tabs, inactiveTab.Render(name))
		}
	}
	return strings.Join(tabs, "  ") + "\n\n" + m.list.View()
}

func (m model) detailView() string {
	var b strings.Builder

	b.WriteString(quoteStyle.Render(m.current.Content))
	b.WriteString("\n  - ")
	b.WriteString(m.current.Author)
	if len(m.current.Tags) > 0 {
		b.WriteString(helpStyle.Render("  #" + strings.Join(m.current.Tags, " #")))
	}
	b.WriteString("\n\n")

	if !m.metaLoaded {
		b.WriteString(helpStyle.Render("loading likes and comments..."))
		return b.String()
	}

	user, signedIn := m.services.AuthService.CurrentUser()
	likes := fmt.Sprintf("♥ %d %s", m.meta.LikeCount, plural(m.meta.LikeCount, "like", "likes"))
	if signedIn && m.meta.LikedByUser(user.ID) {
		b.WriteString(likedStyle.Render(likes + " (you)"))
	} else {
		b.WriteString(likes)
	}
	b.WriteString(fmt.Sprintf("   %d %s", m.meta.CommentCount, plural(m.meta.CommentCount, "comment", "comments")))
	if signedIn && m.meta.SavedByUser(user.ID) {
		b.WriteString("   saved")
	}
	b.WriteString("\n")

	for i, c := range m.comments {
		if i == shownComments {
			b.WriteString(helpStyle.Render(fmt.Sprintf("  ...and %d more", len(m.comments)-shownComments)))
			b.WriteString("\n")
			break
		}
		b.WriteString("  ")
		b.WriteString(commentAuthor.Render(c.Username))
		b.WriteString(": ")
		b.WriteString(c.Text)
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) help() string {
	switch m.screen {
	case screenSignIn:
		return "enter: sign in  esc: guest  ctrl+c: quit"
	case screenBrowse:
		return "enter: open  tab: switch tab  r: random  t: tag  f: search  n: new quote  /: filter  o: sign out  ctrl+c: quit"
	case screenDetail:
		return "l: like  s: save  c: comment  y: copy  esc: back"
	case screenNewQuote:
		return "tab: next field  enter: publish  esc: cancel"
	default:
		return "enter: submit  esc: cancel"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
