package view

import (
	"errors"
	"fmt"
)

// Bindings holds the typed handles of a document, resolved once by Bind.
type Bindings struct {
	Doc     *Document
	Form    *Element
	List    *ListPanel
	Detail  *DetailPanel
	Cases   *CaseContainer
	Overlay *Overlay
	Driver  *DriverWidget
	Toasts  *Toaster
}

// Bind resolves every mount point of doc. It fails if any is missing, so a
// broken document is caught at initialization rather than on first use.
func Bind(doc *Document) (*Bindings, error) {
	r := resolver{doc: doc}

	b := &Bindings{
		Doc:  doc,
		Form: r.get(IDForm),
		List: &ListPanel{
			Container: r.get(IDListContainer),
			Table:     r.get(IDListTable),
		},
		Detail: &DetailPanel{
			Container:   r.get(IDDetail),
			Title:       r.get(IDTitle),
			URL:         r.get(IDURL),
			Date:        r.get(IDDate),
			PageCount:   r.get(IDPageCount),
			ShowBtn:     r.get(IDShowCasesBtn),
			GenerateBtn: r.get(IDGenerateBtn),
		},
		Cases: &CaseContainer{
			Container: r.get(IDCases),
			doc:       doc,
		},
		Overlay: &Overlay{
			Container: r.get(IDOverlay),
			Message:   r.get(IDOverlayMessage),
		},
		Driver: &DriverWidget{
			Container: r.get(IDDriver),
			Path:      r.get(IDDriverPath),
			LogArea:   r.get(IDDriverLogs),
		},
		Toasts: &Toaster{},
	}

	if len(r.missing) > 0 {
		return nil, fmt.Errorf("bind document: %w", errors.Join(r.missing...))
	}
	return b, nil
}

type resolver struct {
	doc     *Document
	missing []error
}

func (r *resolver) get(id string) *Element {
	el, err := r.doc.MustLookup(id)
	if err != nil {
		r.missing = append(r.missing, err)
	}
	return el
}

// ShowPanel makes exactly one of form, list and detail visible.
func (b *Bindings) ShowPanel(p Panel) {
	b.Form.SetVisible(p == PanelForm)
	b.List.Container.SetVisible(p == PanelList)
	b.Detail.Container.SetVisible(p == PanelDetail)
}

// ActivePanel returns the visible top-level panel.
func (b *Bindings) ActivePanel() Panel {
	switch {
	case b.Detail.Container.Visible():
		return PanelDetail
	case b.List.Container.Visible():
		return PanelList
	default:
		return PanelForm
	}
}

// Panel is a top-level area of the document.
type Panel int

const (
	PanelForm Panel = iota
	PanelList
	PanelDetail
)

// String returns the string representation of Panel
func (p Panel) String() string {
	switch p {
	case PanelForm:
		return "form"
	case PanelList:
		return "list"
	case PanelDetail:
		return "detail"
	default:
		return "unknown"
	}
}
