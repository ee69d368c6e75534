// Package view is the retained view model of the exploration panel: a
// document of named mount points and the typed handles bound to them.
package view

import (
	"fmt"
	"sort"
	"strconv"
)

// Mount point identifiers.
const (
	IDForm           = "website-form-container"
	IDListContainer  = "saved-explorations-container"
	IDListTable      = "saved-explorations-table"
	IDDetail         = "exploration-details-container"
	IDTitle          = "exploration-title"
	IDURL            = "exploration-url"
	IDDate           = "exploration-date"
	IDPageCount      = "exploration-page-count"
	IDShowCasesBtn   = "show-test-cases-btn"
	IDGenerateBtn    = "generate-test-cases-btn"
	IDCases          = "test-cases-container"
	IDOverlay        = "loading-overlay"
	IDOverlayMessage = "loading-message"
	IDDriver         = "chrome-driver-container"
	IDDriverPath     = "chrome-driver-path"
	IDDriverLogs     = "chrome-driver-logs"

	codeContainerPrefix = "code-container-"

	// DriverPathPlaceholder is the example path shown in the empty
	// ChromeDriver input. It is never sent to the service.
	DriverPathPlaceholder = `C:\projects\testcase\chromedriver.exe`
)

// MountPoints lists every static mount point, in document order.
var MountPoints = []string{
	IDForm,
	IDListContainer,
	IDListTable,
	IDDetail,
	IDTitle,
	IDURL,
	IDDate,
	IDPageCount,
	IDShowCasesBtn,
	IDGenerateBtn,
	IDCases,
	IDOverlay,
	IDOverlayMessage,
	IDDriver,
	IDDriverPath,
	IDDriverLogs,
}

// initiallyHidden are the mount points hidden before the first render.
var initiallyHidden = map[string]bool{
	IDListContainer: true,
	IDDetail:        true,
	IDShowCasesBtn:  true,
	IDGenerateBtn:   true,
	IDCases:         true,
	IDOverlay:       true,
	IDDriver:        true,
}

// CodeContainerID returns the id of the code panel of a test case card.
func CodeContainerID(testID int) string {
	return codeContainerPrefix + strconv.Itoa(testID)
}

// Element is a single mount point.
type Element struct {
	ID     string
	Hidden bool
	Text   string
	Value  string // input value, for editable elements

	Placeholder string // hint shown while Value is empty
}

// Show makes the element visible.
func (e *Element) Show() { e.Hidden = false }

// Hide hides the element.
func (e *Element) Hide() { e.Hidden = true }

// Visible reports whether the element is shown.
func (e *Element) Visible() bool { return !e.Hidden }

// SetVisible shows or hides the element.
func (e *Element) SetVisible(v bool) { e.Hidden = !v }

// Document is the set of mount points the panel renders into.
// It is not safe for concurrent use; the controller serializes access.
type Document struct {
	elements map[string]*Element
}

// NewDocument creates a document carrying every standard mount point.
func NewDocument() *Document {
	d := &Document{elements: make(map[string]*Element, len(MountPoints))}
	for _, id := range MountPoints {
		el := d.Register(id)
		el.Hidden = initiallyHidden[id]
	}
	d.elements[IDDriverPath].Placeholder = DriverPathPlaceholder
	return d
}

// NewEmptyDocument creates a document with no mount points.
func NewEmptyDocument() *Document {
	return &Document{elements: make(map[string]*Element)}
}

// Register adds a mount point, returning the existing one if already present.
func (d *Document) Register(id string) *Element {
	if el, ok := d.elements[id]; ok {
		return el
	}
	el := &Element{ID: id}
	d.elements[id] = el
	return el
}

// Remove drops a mount point.
func (d *Document) Remove(id string) {
	delete(d.elements, id)
}

// Lookup returns the mount point with the given id.
func (d *Document) Lookup(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

// MustLookup returns the mount point or an error naming the missing id.
func (d *Document) MustLookup(id string) (*Element, error) {
	el, ok := d.elements[id]
	if !ok {
		return nil, fmt.Errorf("mount point %q not found", id)
	}
	return el, nil
}

// IDs returns the registered ids, sorted.
func (d *Document) IDs() []string {
	ids := make([]string, 0, len(d.elements))
	for id := range d.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
