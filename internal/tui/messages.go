// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/MKhiriev/go-quote-keeper/models"

// metaUpdatedMsg is sent from the coordinator notifier for every cache
// update.
type metaUpdatedMsg struct {
	quoteID string
	meta    models.QuoteMeta
}

type signedInMsg struct {
	user models.User
	err  error
}

type quotesLoadedMsg struct {
	tab    tab
	quotes []models.Quote
	err    error
}

type tagsLoadedMsg struct {
	tags []models.Tag
}

type randomQuoteMsg struct {
	quote models.Quote
	ok    bool
}

type toggledMsg struct {
	kind  string
	value bool
	err   error
}

type commentsLoadedMsg struct {
	quoteID  string
	comments []models.Comment
	err      error
}

type commentAddedMsg struct {
	comment models.Comment
	err     error
}

type quoteCreatedMsg struct {
	quote models.Quote
	err   error
}

type copiedMsg struct {
	err error
}
