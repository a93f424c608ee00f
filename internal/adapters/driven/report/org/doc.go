// Package org renders a catalog listing as an Emacs org-mode document.
//
// Items are grouped under a level-one heading per first category, in the
// order categories are first seen. Each item becomes a level-two heading
// with its tags aligned after the title, followed by author, URL and the
// excerpt converted to plain text.
package org
