// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	quit    key.Binding
	random  key.Binding
	tag     key.Binding
	search  key.Binding
	newItem key.Binding
	signOut key.Binding
	like    key.Binding
	save    key.Binding
	comment key.Binding
	copy    key.Binding
}

var keys = keyMap{
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	quit:    key.NewBinding(key.WithKeys("ctrl+c")),
	random:  key.NewBinding(key.WithKeys("r")),
	tag:     key.NewBinding(key.WithKeys("t")),
	search:  key.NewBinding(key.WithKeys("f")),
	newItem: key.NewBinding(key.WithKeys("n")),
	signOut: key.NewBinding(key.WithKeys("o")),
	like:    key.NewBinding(key.WithKeys("l")),
	save:    key.NewBinding(key.WithKeys("s")),
	comment: key.NewBinding(key.WithKeys("c")),
	copy:    key.NewBinding(key.WithKeys("y")),
}
